package conversation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/observability/telemetry"
	"github.com/seu-repo/vox-agenda/internal/ports"
)

const systemDirective = "You are a concise scheduling assistant. Use the calendar tool when ready."

const (
	confirmationReply = "I've scheduled that for you!"
	failureReply      = "I couldn't schedule that."
)

// Service resolves one utterance per turn. No conversation history is
// retained across turns.
type Service struct {
	chat        ports.ChatCompleter
	calendar    ports.CalendarService
	turnTimeout time.Duration
	log         *zap.Logger
}

func NewService(chat ports.ChatCompleter, calendar ports.CalendarService, turnTimeout time.Duration, log *zap.Logger) ports.ConversationService {
	return &Service{
		chat:        chat,
		calendar:    calendar,
		turnTimeout: turnTimeout,
		log:         log,
	}
}

// HandleTurn sends the utterance with the tool registry to the language
// model and resolves the result into the final reply text. Tool
// invocations are dispatched sequentially in the order the model returned
// them; a dispatch failure never propagates out of the turn, it maps to a
// distinct failure reply instead.
func (s *Service) HandleTurn(ctx context.Context, utterance string) (string, error) {
	if s.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.turnTimeout)
		defer cancel()
	}

	started := time.Now()
	defer func() {
		telemetry.TurnLatency.Observe(time.Since(started).Seconds())
	}()

	result, err := s.chat.Complete(ctx, systemDirective, utterance, Registry())
	if err != nil {
		telemetry.TurnsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("conversation: chat completion: %w", err)
	}

	if len(result.ToolInvocations) == 0 {
		telemetry.TurnsTotal.WithLabelValues("reply").Inc()
		return result.Content, nil
	}

	failed := false
	for _, inv := range result.ToolInvocations {
		if err := s.dispatch(ctx, inv); err != nil {
			failed = true
			s.log.Error("Tool invocation failed",
				zap.String("tool", inv.Name),
				zap.Error(err),
			)
		}
	}

	if failed {
		telemetry.TurnsTotal.WithLabelValues("booking_failed").Inc()
		return failureReply, nil
	}

	telemetry.TurnsTotal.WithLabelValues("booked").Inc()
	return confirmationReply, nil
}

// dispatch validates one invocation against the registry's required
// fields and runs the booking. The returned event link is ignored; the
// reply never carries it.
func (s *Service) dispatch(ctx context.Context, inv domain.ToolInvocation) error {
	if inv.Name != toolCreateCalendarEvent {
		return fmt.Errorf("%w: unknown tool %q", domain.ErrMalformedInput, inv.Name)
	}

	for _, field := range requiredToolFields {
		if inv.Arguments[field] == "" {
			return fmt.Errorf("%w: missing required field %q", domain.ErrMalformedInput, field)
		}
	}

	req := domain.BookingRequest{
		Name: inv.Arguments["name"],
		Date: inv.Arguments["date"],
		Time: inv.Arguments["time"],
	}

	_, err := s.calendar.CreateEvent(ctx, req)
	return err
}
