package console

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"courtbook/internal/api"
	"courtbook/internal/booking"
	"courtbook/internal/events"
	"courtbook/internal/model"
	"courtbook/internal/paging"
)

func (c *Console) renderAdmin(ctx context.Context, _ url.Values) {
	c.loadCourts(ctx, 1, c.api.ListCourtsPaged)
}

func (c *Console) handleAdmin(ctx context.Context, cmd string, args []string) bool {
	if c.handlePaging(ctx, cmd, args, c.api.ListCourtsPaged) {
		return true
	}
	switch cmd {
	case "users":
		c.Navigate(ctx, RouteAdminUsers)
	case "create":
		c.createCourt(ctx)
	case "toggle":
		if ct, ok := c.pickCourt(args); ok {
			c.toggleCourt(ctx, ct)
		}
	case "hours":
		if ct, ok := c.pickCourt(args); ok {
			c.updateHours(ctx, ct)
		}
	default:
		return false
	}
	return true
}

func (c *Console) pickCourt(args []string) (model.Court, bool) {
	if len(c.view.courts) == 0 {
		c.say("No courts on this page.")
		return model.Court{}, false
	}
	n, ok := c.index(args, len(c.view.courts))
	if !ok {
		return model.Court{}, false
	}
	return c.view.courts[n-1], true
}

// askHours reads opening hours with defaults and checks them locally.
func (c *Console) askHours(openTime, closeTime string, slot int) (model.ScheduleInput, bool) {
	var in model.ScheduleInput
	var ok bool
	if in.OpenTime, ok = c.ask("Opening time", openTime); !ok {
		return in, false
	}
	if in.CloseTime, ok = c.ask("Closing time", closeTime); !ok {
		return in, false
	}
	raw, ok := c.ask("Slot minutes", strconv.Itoa(slot))
	if !ok {
		return in, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.say("Slot minutes must be a number.")
		return in, false
	}
	in.SlotMinutes = n
	if err := booking.CheckHours(in.OpenTime, in.CloseTime, in.SlotMinutes); err != nil {
		c.say("%s", err)
		return in, false
	}
	return in, true
}

func (c *Console) createCourt(ctx context.Context) {
	in := model.DefaultCourtInput()
	var ok bool
	if in.Name, ok = c.ask("Name", ""); !ok {
		return
	}
	if in.Location, ok = c.ask("Location", ""); !ok {
		return
	}
	if in.Name == "" || in.Location == "" {
		c.say("Name and location are required.")
		return
	}
	hours, ok := c.askHours(in.OpenTime, in.CloseTime, in.SlotMinutes)
	if !ok {
		return
	}
	in.OpenTime, in.CloseTime, in.SlotMinutes = hours.OpenTime, hours.CloseTime, hours.SlotMinutes

	court, err := c.api.CreateCourt(ctx, in)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to create court."))
		return
	}
	subject := in.Name
	if court != nil && court.ID != "" {
		subject = court.ID
	}
	c.publish(events.Event{Type: events.CourtCreated, Subject: subject, Detail: in.Name})
	c.loadCourts(ctx, 1, c.api.ListCourtsPaged)
	c.say("Court created successfully!")
}

func (c *Console) toggleCourt(ctx context.Context, ct model.Court) {
	active := !ct.IsActive
	if err := c.api.SetCourtActive(ctx, ct.ID, active); err != nil {
		c.say("%s", api.Message(err, "Failed to update court status."))
		return
	}
	state := "deactivated"
	if active {
		state = "activated"
	}
	c.publish(events.Event{Type: events.CourtUpdated, Subject: ct.ID, Detail: state})
	c.loadCourts(ctx, c.view.pager.Page, c.api.ListCourtsPaged)
	c.say("Court %s successfully!", state)
}

func (c *Console) updateHours(ctx context.Context, ct model.Court) {
	in, ok := c.askHours(ct.OpeningTime, ct.ClosingTime, ct.SlotMinutes)
	if !ok {
		return
	}
	if err := c.api.UpdateCourtSchedule(ctx, ct.ID, in); err != nil {
		c.say("%s", api.Message(err, "Failed to update schedule."))
		return
	}
	c.publish(events.Event{Type: events.CourtUpdated, Subject: ct.ID,
		Detail: fmt.Sprintf("%s-%s/%d", in.OpenTime, in.CloseTime, in.SlotMinutes)})
	c.loadCourts(ctx, c.view.pager.Page, c.api.ListCourtsPaged)
	c.say("Schedule updated successfully!")
}

func (c *Console) renderAdminUsers(ctx context.Context, _ url.Values) {
	c.loadUsers(ctx, 1)
}

func (c *Console) loadUsers(ctx context.Context, page int) {
	page = c.view.pager.Clamp(page)
	res, err := c.api.ListUsers(ctx, page, c.opts.PageSize)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to load users."))
		return
	}
	c.view.users = res.Users
	c.view.pager = paging.FromWire(res.Page, res.TotalPages, false)

	if len(res.Users) == 0 {
		c.say("No users found.")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for i, u := range res.Users {
		verified := "unverified"
		if u.IsVerified {
			verified = "verified"
		}
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\t%s\n", i+1, u.Email, u.FullName(), u.Role, verified)
	}
	tw.Flush()
	c.printPager()
}

func (c *Console) handleAdminUsers(ctx context.Context, cmd string, args []string) bool {
	p := c.view.pager
	switch cmd {
	case "next":
		if !p.HasNext() {
			c.say("Already on the last page.")
			return true
		}
		c.loadUsers(ctx, p.Next())
	case "prev":
		if !p.HasPrev() {
			c.say("Already on the first page.")
			return true
		}
		c.loadUsers(ctx, p.Prev())
	case "page":
		if n, ok := c.index(args, p.Last()); ok {
			c.loadUsers(ctx, n)
		}
	case "role":
		c.changeRole(ctx, args)
	default:
		return false
	}
	return true
}

func (c *Console) changeRole(ctx context.Context, args []string) {
	if len(args) < 2 {
		c.say("Usage: role <n> <USER|ADMIN|SUPER_ADMIN>")
		return
	}
	if len(c.view.users) == 0 {
		c.say("No users on this page.")
		return
	}
	n, ok := c.index(args, len(c.view.users))
	if !ok {
		return
	}
	role, valid := model.ParseRole(strings.ToUpper(args[1]))
	if !valid || role == model.RoleNone {
		c.say("Unknown role %q.", args[1])
		return
	}
	u := c.view.users[n-1]
	msg, err := c.api.ChangeRole(ctx, u.ID, role)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to update role."))
		return
	}
	if msg == "" {
		msg = "Role updated successfully!"
	}
	c.publish(events.Event{Type: events.RoleChanged, Subject: u.Email, Detail: string(role)})
	c.loadUsers(ctx, c.view.pager.Page)
	c.say("%s", msg)
}
