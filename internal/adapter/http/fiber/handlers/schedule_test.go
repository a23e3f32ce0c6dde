package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newScheduleApp(scheduler *mocks.MockCalendarService) *fiber.App {
	app := fiber.New()
	handler := NewScheduleHandler(scheduler, newTestLogger())
	app.Post("/api/v1/schedule", handler.Create)
	return app
}

func postSchedule(t *testing.T, app *fiber.App, body string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/schedule", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, payload
}

func TestScheduleCreate_Success(t *testing.T) {
	// Arrange
	var got domain.BookingRequest
	scheduler := &mocks.MockCalendarService{
		CreateEventFunc: func(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error) {
			got = req
			return &domain.CalendarEvent{Link: "https://calendar.example/evt-1"}, nil
		},
	}
	app := newScheduleApp(scheduler)

	// Act
	code, body := postSchedule(t, app, `{"parameters":{"name":"Alice","date":"2024-06-01","time":"14:00"}}`)

	// Assert
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	if got.Name != "Alice" || got.Date != "2024-06-01" || got.Time != "14:00" {
		t.Errorf("unexpected booking request: %+v", got)
	}

	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["status"] != "success" {
		t.Errorf("expected success status, got %q", out["status"])
	}
	if out["event_link"] != "https://calendar.example/evt-1" {
		t.Errorf("unexpected event link: %q", out["event_link"])
	}
}

func TestScheduleCreate_MissingCredential(t *testing.T) {
	// Arrange
	scheduler := &mocks.MockCalendarService{
		CreateEventFunc: func(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error) {
			return nil, domain.ErrAuthentication
		},
	}
	app := newScheduleApp(scheduler)

	// Act: even an empty parameters object maps to 401, not 400 — the
	// credential is checked before the booking arguments.
	code, body := postSchedule(t, app, `{"parameters":{}}`)

	// Assert
	if code != fiber.StatusUnauthorized {
		t.Errorf("expected 401, got %d: %s", code, body)
	}
}

func TestScheduleCreate_MalformedInput(t *testing.T) {
	// Arrange
	scheduler := &mocks.MockCalendarService{
		CreateEventFunc: func(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error) {
			return nil, fmt.Errorf("%w: invalid date %q", domain.ErrMalformedInput, req.Date)
		},
	}
	app := newScheduleApp(scheduler)

	// Act
	code, body := postSchedule(t, app, `{"parameters":{"name":"Alice","date":"June 1st","time":"14:00"}}`)

	// Assert
	if code != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", code, body)
	}
}

func TestScheduleCreate_UpstreamFailure(t *testing.T) {
	// Arrange
	scheduler := &mocks.MockCalendarService{
		CreateEventFunc: func(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error) {
			return nil, &domain.UpstreamError{Service: "google-calendar", StatusCode: 500, Message: "internal"}
		},
	}
	app := newScheduleApp(scheduler)

	// Act
	code, body := postSchedule(t, app, `{"parameters":{"name":"Alice","date":"2024-06-01","time":"14:00"}}`)

	// Assert
	if code != fiber.StatusBadGateway {
		t.Errorf("expected 502, got %d: %s", code, body)
	}
}

func TestScheduleCreate_InvalidBody(t *testing.T) {
	// Arrange
	scheduler := &mocks.MockCalendarService{
		CreateEventFunc: func(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error) {
			t.Fatal("scheduler must not be called for an unparseable body")
			return nil, nil
		},
	}
	app := newScheduleApp(scheduler)

	// Act
	code, body := postSchedule(t, app, `not json at all`)

	// Assert
	if code != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", code, body)
	}
}
