package domain

import (
	"fmt"
	"time"
)

// MeetingDuration is the fixed length of every scheduled meeting.
// Variable-duration meetings are not supported.
const MeetingDuration = 30 * time.Minute

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// BookingRequest carries the attendee and slot for one calendar booking.
// It is built either from a tool invocation or from the schedule endpoint
// body, used once and discarded.
type BookingRequest struct {
	Name string `json:"name"`
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}

// StartTime combines Date and Time into a single UTC instant. No timezone
// conversion happens here: the event is always tagged UTC regardless of the
// caller's locale.
func (r BookingRequest) StartTime() (time.Time, error) {
	if _, err := time.Parse(dateLayout, r.Date); err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrMalformedInput, r.Date)
	}
	if _, err := time.Parse(timeLayout, r.Time); err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time %q", ErrMalformedInput, r.Time)
	}
	start, err := time.ParseInLocation(dateLayout+"T"+timeLayout, r.Date+"T"+r.Time, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return start, nil
}

// CalendarEvent mirrors the event created on the external calendar. The
// calendar service is the system of record; we only keep the creation
// request and the link read back from it.
type CalendarEvent struct {
	Summary  string    `json:"summary"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Timezone string    `json:"timezone"`
	Link     string    `json:"link,omitempty"`
}
