package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication indicates the calendar credential is missing or no
	// longer usable. The schedule endpoint maps it to 401.
	ErrAuthentication = errors.New("calendar credential missing or invalid")

	// ErrMalformedInput indicates a date, time or tool argument that does
	// not satisfy the expected format.
	ErrMalformedInput = errors.New("malformed input")
)

// UpstreamError wraps a rejection from an external service (OpenAI,
// ElevenLabs or Google Calendar). It is propagated, never retried.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream error (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: upstream error: %s", e.Service, e.Message)
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
