package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/observability/telemetry"
	"github.com/seu-repo/vox-agenda/internal/ports"
)

type Service struct {
	calendar ports.CalendarAPI
	log      *zap.Logger
}

func NewService(calendar ports.CalendarAPI, log *zap.Logger) ports.CalendarService {
	return &Service{
		calendar: calendar,
		log:      log,
	}
}

// CreateEvent books one fixed-length meeting. The date/time pair is
// combined into a UTC start instant and the end is always start plus the
// fixed meeting duration.
func (s *Service) CreateEvent(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error) {
	// Credential before arguments: a misconfigured calendar is an auth
	// failure even when the booking itself is malformed.
	if err := s.calendar.EnsureAuthorized(ctx); err != nil {
		telemetry.BookingsTotal.WithLabelValues("unauthorized").Inc()
		return nil, err
	}

	start, err := req.StartTime()
	if err != nil {
		telemetry.BookingsTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}

	event := &domain.CalendarEvent{
		Summary:  fmt.Sprintf("Meeting with %s", req.Name),
		Start:    start,
		End:      start.Add(domain.MeetingDuration),
		Timezone: "UTC",
	}

	link, err := s.calendar.InsertEvent(ctx, event)
	if err != nil {
		telemetry.BookingsTotal.WithLabelValues("failed").Inc()
		s.log.Error("Failed to create calendar event",
			zap.String("name", req.Name),
			zap.String("date", req.Date),
			zap.String("time", req.Time),
			zap.Error(err),
		)
		return nil, err
	}

	event.Link = link
	telemetry.BookingsTotal.WithLabelValues("success").Inc()
	return event, nil
}
