package console

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"text/tabwriter"

	"courtbook/internal/api"
	"courtbook/internal/events"
	"courtbook/internal/profile"
)

func (c *Console) renderMyBookings(ctx context.Context, _ url.Values) {
	c.say("View your upcoming bookings")
	bookings, err := c.api.MyBookings(ctx)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to load your reservations."))
		return
	}
	c.view.bookings = bookings
	if len(bookings) == 0 {
		c.say("You have no reservations yet.")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for i, b := range bookings {
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\n", i+1, b.CourtName,
			formatRange(b.StartTime.Time, b.EndTime.Time, c.opts.Location), b.Status())
	}
	tw.Flush()
}

func (c *Console) handleMyBookings(ctx context.Context, cmd string, args []string) bool {
	if cmd != "cancel" {
		return false
	}
	if len(c.view.bookings) == 0 {
		c.say("Nothing to cancel.")
		return true
	}
	n, ok := c.index(args, len(c.view.bookings))
	if !ok {
		return true
	}
	b := c.view.bookings[n-1]
	if !b.IsActive {
		c.say("Reservation %d is already cancelled.", n)
		return true
	}

	msg, err := c.api.CancelBooking(ctx, b.ID)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to cancel reservation."))
		return true
	}
	if msg == "" {
		msg = "Reservation cancelled."
	}
	c.publish(events.Event{Type: events.BookingCancelled, Subject: b.ID, Detail: b.CourtName})
	c.render(ctx)
	c.say("%s", msg)
	return true
}

func (c *Console) renderProfile(ctx context.Context, _ url.Values) {
	p, err := c.api.Me(ctx)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to load profile"))
		return
	}
	c.view.profile = p
	verified := "no"
	if p.IsVerified {
		verified = "yes"
	}
	c.say("Name:     %s", p.FullName())
	c.say("Email:    %s", p.Email)
	c.say("Role:     %s", p.Role)
	c.say("Verified: %s", verified)
}

func (c *Console) handleProfile(ctx context.Context, cmd string, _ []string) bool {
	if cmd != "edit" {
		return false
	}
	current := c.view.profile
	if current == nil {
		c.say("Profile is not loaded; try refresh.")
		return true
	}

	form := profile.FormFrom(current)
	var ok bool
	if form.FirstName, ok = c.ask("First name", current.FirstName); !ok {
		return true
	}
	if form.LastName, ok = c.ask("Last name", current.LastName); !ok {
		return true
	}
	if form.NewPassword, ok = c.ask("New password (blank keeps the current one)", ""); !ok {
		return true
	}

	if msg := profile.Validate(form); msg != "" {
		c.say("%s", msg)
		return true
	}
	changes, err := profile.Diff(current, form)
	if errors.Is(err, profile.ErrNothingChanged) {
		c.say("Nothing to update.")
		return true
	}

	if err := c.api.UpdateProfile(ctx, changes); err != nil {
		c.say("%s", api.Message(err, "Failed to update profile."))
		return true
	}
	c.publish(events.Event{Type: events.ProfileUpdated, Subject: current.Email, Detail: changedFields(changes)})
	c.render(ctx)
	c.say("Profile updated successfully!")
	return true
}

// changedFields names the keys of a profile diff without their values.
func changedFields(changes map[string]string) string {
	var out string
	for _, k := range []string{"firstName", "lastName", "newPassword"} {
		if _, ok := changes[k]; !ok {
			continue
		}
		if out != "" {
			out += ","
		}
		out += k
	}
	return out
}
