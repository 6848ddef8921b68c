package console

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"courtbook/internal/api"
	"courtbook/internal/booking"
	"courtbook/internal/events"
	"courtbook/internal/model"
	"courtbook/internal/paging"
)

func (c *Console) renderCourts(ctx context.Context, _ url.Values) {
	c.loadCourts(ctx, 1, c.api.ListActiveCourtsPaged)
}

type courtLister func(ctx context.Context, page, size int) (*model.CourtPage, error)

// loadCourts fetches a page of courts into the view and prints it.
func (c *Console) loadCourts(ctx context.Context, page int, list courtLister) {
	page = c.view.pager.Clamp(page)
	res, err := list(ctx, page, c.opts.PageSize)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to load courts."))
		return
	}
	c.view.courts = res.Courts
	c.view.pager = paging.FromWire(res.Page, res.TotalPages, false)

	if len(res.Courts) == 0 {
		c.say("No active courts found.")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for i, ct := range res.Courts {
		status := "Active"
		if !ct.IsActive {
			status = "Inactive"
		}
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s-%s\t%d min\t%s\n",
			i+1, ct.Name, ct.Location, ct.OpeningTime, ct.ClosingTime, ct.SlotMinutes, status)
	}
	tw.Flush()
	c.printPager()
}

func (c *Console) printPager() {
	p := c.view.pager
	nav := []string{fmt.Sprintf("Page %d of %d", p.Clamp(p.Page), p.Last())}
	if p.HasPrev() {
		nav = append(nav, "prev")
	}
	if p.HasNext() {
		nav = append(nav, "next")
	}
	c.say("%s", strings.Join(nav, "  "))
}

// handlePaging serves next, prev and page <n> for list pages.
func (c *Console) handlePaging(ctx context.Context, cmd string, args []string, list courtLister) bool {
	p := c.view.pager
	switch cmd {
	case "next":
		if !p.HasNext() {
			c.say("Already on the last page.")
			return true
		}
		c.loadCourts(ctx, p.Next(), list)
	case "prev":
		if !p.HasPrev() {
			c.say("Already on the first page.")
			return true
		}
		c.loadCourts(ctx, p.Prev(), list)
	case "page":
		n, ok := c.index(args, p.Last())
		if !ok {
			return true
		}
		c.loadCourts(ctx, n, list)
	default:
		return false
	}
	return true
}

// index parses args[0] as a 1-based position no greater than max.
func (c *Console) index(args []string, max int) (int, bool) {
	if len(args) == 0 {
		c.say("A number is required.")
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > max {
		c.say("Choose a number from 1 to %d.", max)
		return 0, false
	}
	return n, true
}

func (c *Console) handleCourts(ctx context.Context, cmd string, args []string) bool {
	if c.handlePaging(ctx, cmd, args, c.api.ListActiveCourtsPaged) {
		return true
	}
	if cmd != "open" && cmd != "schedule" {
		return false
	}
	if len(c.view.courts) == 0 {
		c.say("No courts on this page.")
		return true
	}
	n, ok := c.index(args, len(c.view.courts))
	if !ok {
		return true
	}
	c.Navigate(ctx, "/courts/"+url.PathEscape(c.view.courts[n-1].ID)+"/schedule")
	return true
}

func (c *Console) renderSchedule(ctx context.Context, query url.Values) {
	date := c.now()
	if d := query.Get("date"); d != "" {
		parsed, err := booking.ParseDate(d, c.opts.Location)
		if err != nil {
			c.say("%s", err)
		} else {
			date = parsed
		}
	}
	c.loadSchedule(ctx, date)
}

func (c *Console) loadSchedule(ctx context.Context, date time.Time) {
	id := c.params["id"]
	y, m, d := date.Date()
	c.view.date = time.Date(y, m, d, 0, 0, 0, 0, c.opts.Location)

	court, err := c.api.GetCourt(ctx, id)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to load court."))
		return
	}
	c.view.court = court

	day := c.view.date.Format(booking.DateLayout)
	sched, err := c.api.CourtSchedule(ctx, id, day)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to load schedule."))
		return
	}
	name := sched.CourtName
	if name == "" {
		name = court.Name
	}
	c.say("%s on %s", name, day)

	c.view.slots = booking.UpcomingSlots(c.view.date, sched.Slots, c.now(), court.SlotMinutes)
	if len(c.view.slots) == 0 {
		c.say("No available slots for this date.")
		return
	}
	for i, s := range c.view.slots {
		c.say("%d. %s-%s", i+1, s.Start.Format("15:04"), s.End.Format("15:04"))
	}
}

func (c *Console) handleSchedule(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "back":
		c.Navigate(ctx, RouteCourts)
	case "date":
		if len(args) == 0 {
			c.say("Usage: date YYYY-MM-DD")
			return true
		}
		d, err := booking.ParseDate(args[0], c.opts.Location)
		if err != nil {
			c.say("%s", err)
			return true
		}
		c.loadSchedule(ctx, d)
	case "book":
		c.book(ctx, args)
	default:
		return false
	}
	return true
}

// book reserves a slot by list position or by time label on the selected
// date. The booking rules run before any request.
func (c *Console) book(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.say("Usage: book <n|HH:MM|HH:MM-HH:MM>")
		return
	}
	if c.view.date.IsZero() {
		c.say("Choose a date first.")
		return
	}

	var slot booking.Slot
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(c.view.slots) {
			c.say("Choose a slot from 1 to %d.", len(c.view.slots))
			return
		}
		slot = c.view.slots[n-1]
	} else {
		minutes := 0
		if c.view.court != nil {
			minutes = c.view.court.SlotMinutes
		}
		slot, err = booking.ParseSlot(c.view.date, args[0], minutes)
		if err != nil {
			c.say("%s", err)
			return
		}
	}

	if err := c.opts.Rules.Validate(c.now(), slot.Start, slot.End); err != nil {
		c.say("%s", c.ruleMessage(err))
		return
	}

	courtID := c.params["id"]
	b, err := c.api.CreateBooking(ctx, model.NewBookingInput(courtID, slot.Start, slot.End))
	if err != nil {
		c.say("%s", api.Message(err, "Failed to create reservation."))
		return
	}
	when := formatRange(slot.Start, slot.End, c.opts.Location)
	c.say("Reservation confirmed: %s.", when)
	subject := courtID
	if b != nil && b.ID != "" {
		subject = b.ID
	}
	c.publish(events.Event{Type: events.BookingCreated, Subject: subject, Detail: courtID + " " + when})
	c.loadSchedule(ctx, c.view.date)
}

func (c *Console) ruleMessage(err error) string {
	r := c.opts.Rules
	switch {
	case errors.Is(err, booking.ErrPastStart) && r.MinAdvance > 0:
		return fmt.Sprintf("Reservations must start at least %s from now.", r.MinAdvance)
	case errors.Is(err, booking.ErrPastStart):
		return "Cannot book a slot in the past."
	case errors.Is(err, booking.ErrTooFarAhead):
		return fmt.Sprintf("Reservations can be made at most %d days ahead.", int(r.MaxAdvance.Hours()/24))
	case errors.Is(err, booking.ErrInvalidRange):
		return "End time must be after start time."
	default:
		return err.Error()
	}
}
