package model

import "time"

// Booking is the client view of a reservation.
type Booking struct {
	ID        string    `json:"id"`
	CourtID   string    `json:"courtId"`
	CourtName string    `json:"courtName"`
	StartTime Timestamp `json:"startTime"`
	EndTime   Timestamp `json:"endTime"`
	IsActive  bool      `json:"isActive"`
}

// Status is the label shown next to a booking.
func (b *Booking) Status() string {
	if b.IsActive {
		return "Active"
	}
	return "Cancelled"
}

// Upcoming reports whether the booking is active and has not started yet.
func (b *Booking) Upcoming(now time.Time) bool {
	return b.IsActive && b.StartTime.After(now)
}

// BookingInput is the body of POST /bookings.
type BookingInput struct {
	CourtID   string `json:"courtId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// NewBookingInput formats start and end the way the backend expects.
func NewBookingInput(courtID string, start, end time.Time) BookingInput {
	return BookingInput{
		CourtID:   courtID,
		StartTime: start.In(Location()).Format(LocalLayout),
		EndTime:   end.In(Location()).Format(LocalLayout),
	}
}
