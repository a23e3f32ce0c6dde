package ports

import (
	"context"

	"github.com/seu-repo/vox-agenda/internal/domain"
)

// CalendarService creates events on the configured calendar.
type CalendarService interface {
	CreateEvent(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error)
}

// CalendarAPI is the raw calendar backend behind CalendarService. The
// service builds and validates the event; the API only inserts it and
// returns the created event's link.
type CalendarAPI interface {
	// EnsureAuthorized fails with ErrAuthentication when no usable
	// credential is configured. Checked before the booking arguments are
	// looked at, so a missing credential always surfaces as an auth error.
	EnsureAuthorized(ctx context.Context) error
	InsertEvent(ctx context.Context, event *domain.CalendarEvent) (string, error)
}

// ChatCompleter issues one chat completion carrying the tool registry.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string, tools []domain.ToolSchema) (*domain.ChatResult, error)
}

// ConversationService resolves one user utterance into the final reply
// text for synthesis. Turns are stateless and independent.
type ConversationService interface {
	HandleTurn(ctx context.Context, utterance string) (string, error)
}

// SpeechStream is one live synthesis connection, bound 1:1 to a voice
// session.
type SpeechStream interface {
	// SendText forwards finalized reply text, flagged to flush synthesis
	// immediately.
	SendText(ctx context.Context, text string) error
	// ReceiveAudio blocks for the next frame carrying an audio payload.
	// Frames without audio are skipped silently.
	ReceiveAudio(ctx context.Context) (domain.SpeechChunk, error)
	Close() error
}

// SpeechStreamDialer opens a SpeechStream for a new session.
type SpeechStreamDialer interface {
	Connect(ctx context.Context) (SpeechStream, error)
}
