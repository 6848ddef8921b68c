package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"courtbook/internal/api"
	"courtbook/internal/booking"
	"courtbook/internal/events"
	"courtbook/internal/model"
	"courtbook/internal/paging"
	"courtbook/internal/profile"
	"courtbook/internal/session"
)

var errNotLoggedIn = errors.New("not logged in")

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"signup":   {"register a new account", cmdSignUp},
	"login":    {"log in and store the session token", cmdLogin},
	"verify":   {"confirm an email address with its token", cmdVerify},
	"logout":   {"forget the session token", cmdLogout},
	"whoami":   {"show the logged in user and role", cmdWhoAmI},
	"courts":   {"list courts", cmdCourts},
	"schedule": {"show free slots of a court on a date", cmdSchedule},
	"book":     {"reserve a slot", cmdBook},
	"bookings": {"list your reservations", cmdBookings},
	"cancel":   {"cancel a reservation", cmdCancel},
	"profile":  {"show or update your profile", cmdProfile},
	"export":   {"write reservations and activity to an .xlsx file", cmdExport},
	"backup":   {"snapshot the local state database", cmdBackup},
	"console":  {"interactive terminal client", cmdConsole},

	"admin-courts":         {"list all courts (admin)", cmdAdminCourts},
	"admin-create-court":   {"create a court (admin)", cmdAdminCreateCourt},
	"admin-toggle-court":   {"activate or deactivate a court (admin)", cmdAdminToggleCourt},
	"admin-court-schedule": {"change opening hours of a court (admin)", cmdAdminCourtSchedule},
	"admin-users":          {"list users (super admin)", cmdAdminUsers},
	"admin-role":           {"change the role of a user (super admin)", cmdAdminRole},
}

func newFlags(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func requireLogin(ctx context.Context, a *app) error {
	if !a.sess.Authenticated(ctx) {
		return errNotLoggedIn
	}
	return nil
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" && err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return line, nil
}

func cmdSignUp(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "signup")
	var in model.SignUpInput
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := a.client.SignUp(ctx, in)
	if err != nil {
		var ve *api.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			return fmt.Errorf("%s: %s", ve.Field, ve.Message)
		}
		return err
	}
	if msg == "" {
		msg = "Registration successful! Check your email to verify your account."
	}
	a.say("%s", msg)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var err error
	if *email == "" {
		if *email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = a.prompt("Password"); err != nil {
			return err
		}
	}

	token, err := a.client.Login(ctx, *email, *password)
	switch {
	case errors.Is(err, api.ErrUnverified):
		return errors.New(api.Message(err, "Please verify your email before logging in."))
	case errors.Is(err, api.ErrInvalidCredentials):
		return errors.New("Invalid credentials or unverified email!")
	case err != nil:
		return err
	}

	claims, err := a.sess.Login(ctx, token)
	if err != nil {
		return fmt.Errorf("login returned an unusable token: %w", err)
	}
	a.say("Login successful! Logged in as %s (%s).", claims.Email(), claims.Role)
	return nil
}

func cmdVerify(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "verify")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: courtbook verify <token>")
	}
	msg, err := a.client.VerifyEmail(ctx, fs.Arg(0))
	if errors.Is(err, api.ErrInvalidOrExpiredToken) {
		return errors.New("Verification failed. This link may be invalid or expired.")
	}
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Email verified. Your account is now active."
	}
	a.say("%s", msg)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	a.say("Logged out.")
	return nil
}

func cmdWhoAmI(ctx context.Context, a *app, _ []string) error {
	claims, err := a.sess.Claims(ctx)
	if session.IsNoSession(err) {
		return errNotLoggedIn
	}
	if err != nil {
		return err
	}
	a.say("%s (%s)", claims.Email(), claims.Role)
	if claims.ExpiresAt != nil {
		state := "expires"
		if claims.Expired(time.Now()) {
			state = "expired"
		}
		a.say("Token %s %s", state, claims.ExpiresAt.Time.In(a.loc).Format(time.RFC1123))
	}
	return nil
}

func printCourts(a *app, courts []model.Court) {
	if len(courts) == 0 {
		a.say("No courts found.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tHOURS\tSLOT\tSTATUS")
	for _, c := range courts {
		status := "Active"
		if !c.IsActive {
			status = "Inactive"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s-%s\t%d min\t%s\n",
			c.ID, c.Name, c.Location, c.OpeningTime, c.ClosingTime, c.SlotMinutes, status)
	}
	tw.Flush()
}

func printPage(a *app, p paging.Pager, total int) {
	a.say("Page %d of %d (%d total)", p.Clamp(p.Page), p.Last(), total)
}

func cmdCourts(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "courts")
	page := fs.Int("page", 0, "page of active courts (1-based); 0 lists every court")
	size := fs.Int("size", a.cfg.Console.PageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(ctx, a); err != nil {
		return err
	}

	if *page <= 0 {
		courts, err := a.client.ListCourts(ctx)
		if err != nil {
			return err
		}
		printCourts(a, courts)
		return nil
	}
	res, err := a.client.ListActiveCourtsPaged(ctx, *page, *size)
	if err != nil {
		return err
	}
	printCourts(a, res.Courts)
	printPage(a, paging.FromWire(res.Page, res.TotalPages, false), res.TotalCourts)
	return nil
}

func cmdSchedule(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "schedule")
	courtID := fs.String("court", "", "court ID")
	date := fs.String("date", time.Now().In(a.loc).Format(booking.DateLayout), "date YYYY-MM-DD")
	all := fs.Bool("all", false, "include slots that already started")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *courtID == "" {
		return errors.New("-court is required")
	}
	day, err := booking.ParseDate(*date, a.loc)
	if err != nil {
		return err
	}
	if err := requireLogin(ctx, a); err != nil {
		return err
	}

	sched, err := a.client.Schedule(ctx, *courtID, *date)
	if err != nil {
		return err
	}
	a.say("%s on %s", sched.CourtName, sched.Date)

	minutes, err := slotMinutes(ctx, a, *courtID, sched.Slots)
	if err != nil {
		return err
	}
	now := time.Now()
	if *all {
		now = time.Time{}
	}
	slots := booking.UpcomingSlots(day, sched.Slots, now, minutes)
	if len(slots) == 0 {
		a.say("No available slots for this date.")
		return nil
	}
	for _, s := range slots {
		a.say("  %s-%s", s.Start.Format("15:04"), s.End.Format("15:04"))
	}
	return nil
}

// slotMinutes returns the court's slot length when a label carries only a
// start time, 0 otherwise.
func slotMinutes(ctx context.Context, a *app, courtID string, labels []string) (int, error) {
	for _, l := range labels {
		if strings.Contains(l, "-") {
			continue
		}
		court, err := a.client.GetCourt(ctx, courtID)
		if err != nil {
			return 0, err
		}
		return court.SlotMinutes, nil
	}
	return 0, nil
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "book")
	courtID := fs.String("court", "", "court ID")
	date := fs.String("date", "", "date YYYY-MM-DD")
	slotLabel := fs.String("slot", "", "start time HH:MM or range HH:MM-HH:MM")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *courtID == "" || *date == "" || *slotLabel == "" {
		return errors.New("-court, -date and -slot are required")
	}
	day, err := booking.ParseDate(*date, a.loc)
	if err != nil {
		return err
	}
	slot, err := booking.ParseSlot(day, *slotLabel, 0)
	if err != nil {
		return err
	}
	now := time.Now()
	// The start is known without the court; check it before any request.
	if err := a.rules.Validate(now, slot.Start, slot.Start.Add(time.Minute)); err != nil {
		return err
	}
	if err := requireLogin(ctx, a); err != nil {
		return err
	}
	minutes, err := slotMinutes(ctx, a, *courtID, []string{*slotLabel})
	if err != nil {
		return err
	}
	if minutes > 0 {
		if slot, err = booking.ParseSlot(day, *slotLabel, minutes); err != nil {
			return err
		}
	}
	if err := a.rules.Validate(now, slot.Start, slot.End); err != nil {
		return err
	}

	b, err := a.client.CreateBooking(ctx, model.NewBookingInput(*courtID, slot.Start, slot.End))
	if err != nil {
		return err
	}
	when := slot.Start.Format("2006-01-02 15:04") + "-" + slot.End.Format("15:04")
	a.publish(events.Event{Type: events.BookingCreated, Subject: b.ID, Detail: *courtID + " " + when})
	a.say("Reservation confirmed: %s (id %s).", when, b.ID)
	return nil
}

func cmdBookings(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "bookings")
	upcoming := fs.Bool("upcoming", false, "only active reservations that have not started")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(ctx, a); err != nil {
		return err
	}
	list, err := a.client.MyBookings(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOURT\tSTART\tEND\tSTATUS")
	n := 0
	for _, b := range list {
		if *upcoming && !b.Upcoming(now) {
			continue
		}
		n++
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.CourtName,
			b.StartTime.In(a.loc).Format("2006-01-02 15:04"), b.EndTime.In(a.loc).Format("15:04"), b.Status())
	}
	if n == 0 {
		a.say("You have no reservations yet.")
		return nil
	}
	return tw.Flush()
}

func cmdCancel(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "cancel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: courtbook cancel <booking-id>")
	}
	if err := requireLogin(ctx, a); err != nil {
		return err
	}
	id := fs.Arg(0)
	msg, err := a.client.CancelBooking(ctx, id)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Reservation cancelled."
	}
	a.publish(events.Event{Type: events.BookingCancelled, Subject: id})
	a.say("%s", msg)
	return nil
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "profile")
	var form profile.Form
	fs.StringVar(&form.FirstName, "first", "", "new first name")
	fs.StringVar(&form.LastName, "last", "", "new last name")
	fs.StringVar(&form.NewPassword, "password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(ctx, a); err != nil {
		return err
	}
	current, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	if form == (profile.Form{}) {
		a.say("Name:     %s", current.FullName())
		a.say("Email:    %s", current.Email)
		a.say("Role:     %s", current.Role)
		a.say("Verified: %t", current.IsVerified)
		return nil
	}

	if msg := profile.Validate(form); msg != "" {
		return errors.New(msg)
	}
	changes, err := profile.Diff(current, form)
	if err != nil {
		return err
	}
	if err := a.client.UpdateProfile(ctx, changes); err != nil {
		return err
	}
	a.publish(events.Event{Type: events.ProfileUpdated, Subject: current.Email})
	a.say("Profile updated successfully!")
	return nil
}
