// Package booking holds the checks a reservation must pass on the client
// before any request is sent. Conflict detection stays with the backend.
package booking

import (
	"errors"
	"time"
)

var (
	ErrPastStart    = errors.New("booking start time is in the past")
	ErrTooFarAhead  = errors.New("booking start time is too far ahead")
	ErrInvalidRange = errors.New("booking end time must be after start time")
)

// Rules bound when a booking may start. Zero values disable a bound,
// except that a start at or before now is always rejected.
type Rules struct {
	MinAdvance time.Duration
	MaxAdvance time.Duration
}

// Validate checks start and end against now.
func (r Rules) Validate(now, start, end time.Time) error {
	if !start.After(now.Add(r.MinAdvance)) {
		return ErrPastStart
	}
	if r.MaxAdvance > 0 && start.After(now.Add(r.MaxAdvance)) {
		return ErrTooFarAhead
	}
	if !end.After(start) {
		return ErrInvalidRange
	}
	return nil
}
