package api

import (
	"context"
	"net/http"

	"courtbook/internal/model"
)

// CreateBooking reserves a slot. Client-side rules (past start and so on)
// are the caller's job and must run before this.
func (c *Client) CreateBooking(ctx context.Context, in model.BookingInput) (*model.Booking, error) {
	var b model.Booking
	if err := c.send(ctx, http.MethodPost, "bookings", "bookings", in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// MyBookings lists the caller's reservations.
func (c *Client) MyBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.get(ctx, "bookings/my", "bookings/my", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CancelBooking cancels one reservation and returns the backend's message.
func (c *Client) CancelBooking(ctx context.Context, id string) (string, error) {
	p, err := pathID(id)
	if err != nil {
		return "", err
	}
	var resp messageResponse
	if err := c.send(ctx, http.MethodPatch, "bookings/{id}/cancel", "bookings/"+p+"/cancel", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
