package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"courtbook/internal/booking"
	"courtbook/internal/events"
	"courtbook/internal/model"
	"courtbook/internal/paging"
)

var errForbiddenLocally = errors.New("your role does not allow this command")

func requireRole(ctx context.Context, a *app, roles ...model.Role) error {
	if err := requireLogin(ctx, a); err != nil {
		return err
	}
	if !a.sess.HasRole(ctx, roles...) {
		return errForbiddenLocally
	}
	return nil
}

func requireAdmin(ctx context.Context, a *app) error {
	return requireRole(ctx, a, model.RoleAdmin, model.RoleSuperAdmin)
}

func cmdAdminCourts(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin-courts")
	page := fs.Int("page", 1, "page (1-based)")
	size := fs.Int("size", a.cfg.Console.PageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireAdmin(ctx, a); err != nil {
		return err
	}
	res, err := a.client.ListCourtsPaged(ctx, *page, *size)
	if err != nil {
		return err
	}
	printCourts(a, res.Courts)
	printPage(a, paging.FromWire(res.Page, res.TotalPages, false), res.TotalCourts)
	return nil
}

func cmdAdminCreateCourt(ctx context.Context, a *app, args []string) error {
	in := model.DefaultCourtInput()
	fs := newFlags(a, "admin-create-court")
	fs.StringVar(&in.Name, "name", "", "court name")
	fs.StringVar(&in.Location, "location", "", "court location")
	fs.StringVar(&in.OpenTime, "open", in.OpenTime, "opening time HH:MM")
	fs.StringVar(&in.CloseTime, "close", in.CloseTime, "closing time HH:MM")
	fs.IntVar(&in.SlotMinutes, "slot", in.SlotMinutes, "slot length in minutes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Location) == "" {
		return errors.New("-name and -location are required")
	}
	if err := booking.CheckHours(in.OpenTime, in.CloseTime, in.SlotMinutes); err != nil {
		return err
	}
	if err := requireAdmin(ctx, a); err != nil {
		return err
	}

	court, err := a.client.CreateCourt(ctx, in)
	if err != nil {
		return err
	}
	a.publish(events.Event{Type: events.CourtCreated, Subject: court.ID, Detail: court.Name})
	a.say("Court created successfully! (id %s)", court.ID)
	return nil
}

func cmdAdminToggleCourt(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin-toggle-court")
	id := fs.String("id", "", "court ID")
	active := fs.Bool("active", true, "true to activate, false to deactivate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	if err := requireAdmin(ctx, a); err != nil {
		return err
	}
	if err := a.client.SetCourtActive(ctx, *id, *active); err != nil {
		return err
	}
	state := "deactivated"
	if *active {
		state = "activated"
	}
	a.publish(events.Event{Type: events.CourtUpdated, Subject: *id, Detail: state})
	a.say("Court %s successfully!", state)
	return nil
}

func cmdAdminCourtSchedule(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin-court-schedule")
	id := fs.String("id", "", "court ID")
	var in model.ScheduleInput
	fs.StringVar(&in.OpenTime, "open", "08:00", "opening time HH:MM")
	fs.StringVar(&in.CloseTime, "close", "22:00", "closing time HH:MM")
	fs.IntVar(&in.SlotMinutes, "slot", 60, "slot length in minutes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	if err := booking.CheckHours(in.OpenTime, in.CloseTime, in.SlotMinutes); err != nil {
		return err
	}
	if err := requireAdmin(ctx, a); err != nil {
		return err
	}
	if err := a.client.UpdateCourtSchedule(ctx, *id, in); err != nil {
		return err
	}
	a.publish(events.Event{Type: events.CourtUpdated, Subject: *id,
		Detail: fmt.Sprintf("%s-%s/%d", in.OpenTime, in.CloseTime, in.SlotMinutes)})
	a.say("Schedule updated successfully!")
	return nil
}

func cmdAdminUsers(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin-users")
	page := fs.Int("page", 1, "page (1-based)")
	size := fs.Int("size", a.cfg.Console.PageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireRole(ctx, a, model.RoleSuperAdmin); err != nil {
		return err
	}
	res, err := a.client.ListUsers(ctx, *page, *size)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tVERIFIED")
	for _, u := range res.Users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.FullName(), u.Role, u.IsVerified)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printPage(a, paging.FromWire(res.Page, res.TotalPages, false), res.TotalElements)
	return nil
}

func cmdAdminRole(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin-role")
	userID := fs.String("user", "", "user ID")
	roleName := fs.String("role", "", "USER, ADMIN or SUPER_ADMIN")
	if err := fs.Parse(args); err != nil {
		return err
	}
	role, ok := model.ParseRole(strings.ToUpper(*roleName))
	if *userID == "" || !ok {
		return errors.New("-user and a valid -role are required")
	}
	if err := requireRole(ctx, a, model.RoleSuperAdmin); err != nil {
		return err
	}
	msg, err := a.client.ChangeRole(ctx, *userID, role)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Role updated successfully!"
	}
	a.publish(events.Event{Type: events.RoleChanged, Subject: *userID, Detail: string(role)})
	a.say("%s", msg)
	return nil
}
