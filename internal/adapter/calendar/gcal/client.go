package gcal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/pkg/config"
)

// Client inserts events into Google Calendar using an authorized-user
// credential (long-lived refresh token). Access tokens are refreshed
// transparently by the oauth2 token source, which serializes refreshes
// under its own lock so concurrent requests never race to refresh.
type Client struct {
	tokenJSON  []byte
	calendarID string
	log        *zap.Logger

	mu  sync.Mutex
	svc *calendar.Service
}

func NewClient(cfg config.GoogleCalendarConfig, log *zap.Logger) *Client {
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		tokenJSON:  []byte(cfg.TokenJSON),
		calendarID: calendarID,
		log:        log,
	}
}

// service lazily builds the calendar service on first use so a missing
// credential surfaces as an authentication error at call time, not at
// startup.
func (c *Client) service(ctx context.Context) (*calendar.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	if len(c.tokenJSON) == 0 {
		return nil, domain.ErrAuthentication
	}

	creds, err := google.CredentialsFromJSON(context.Background(), c.tokenJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}

	svc, err := calendar.NewService(context.Background(), option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("gcal: build calendar service: %w", err)
	}

	c.svc = svc
	return svc, nil
}

// EnsureAuthorized builds the calendar service if needed, surfacing a
// missing or unusable credential as ErrAuthentication.
func (c *Client) EnsureAuthorized(ctx context.Context) error {
	_, err := c.service(ctx)
	return err
}

// InsertEvent creates one event on the configured calendar and returns
// the created event's link. Rejections are propagated, not retried.
func (c *Client) InsertEvent(ctx context.Context, event *domain.CalendarEvent) (string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return "", err
	}

	ev := &calendar.Event{
		Summary: event.Summary,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.Timezone,
		},
	}

	created, err := svc.Events.Insert(c.calendarID, ev).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			if gerr.Code == 401 || gerr.Code == 403 {
				return "", fmt.Errorf("%w: calendar API status %d", domain.ErrAuthentication, gerr.Code)
			}
			return "", &domain.UpstreamError{
				Service:    "google-calendar",
				StatusCode: gerr.Code,
				Message:    gerr.Message,
			}
		}
		return "", &domain.UpstreamError{Service: "google-calendar", Message: err.Error()}
	}

	c.log.Info("Calendar event created",
		zap.String("summary", event.Summary),
		zap.Time("start", event.Start),
	)

	return created.HtmlLink, nil
}
