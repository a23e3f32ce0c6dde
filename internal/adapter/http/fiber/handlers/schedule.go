package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/ports"
)

// ScheduleHandler is the standalone tool-invocation endpoint: the calling
// tool-execution platform posts structured parameters here and gets the
// same booking side effect as the voice path. Repeated calls create
// repeated events; there is no deduplication.
type ScheduleHandler struct {
	scheduler ports.CalendarService
	log       *zap.Logger
}

func NewScheduleHandler(scheduler ports.CalendarService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduler: scheduler,
		log:       log,
	}
}

// scheduleRequest mirrors the tool-execution platform's body shape.
type scheduleRequest struct {
	Parameters domain.BookingRequest `json:"parameters"`
}

func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	event, err := h.scheduler.CreateEvent(c.Context(), req.Parameters)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthentication):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized: calendar credential not configured"})
		case errors.Is(err, domain.ErrMalformedInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case domain.IsUpstream(err):
			h.log.Error("Calendar service rejected booking", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "calendar service rejected the request"})
		default:
			h.log.Error("Failed to schedule event", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to schedule event"})
		}
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"event_link": event.Link,
	})
}
