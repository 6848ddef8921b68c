// Package console is the interactive terminal client. It mirrors the web
// pages of the reservation system as routes and reads one command per line.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"courtbook/internal/booking"
	"courtbook/internal/events"
	"courtbook/internal/model"
	"courtbook/internal/paging"
	"courtbook/internal/session"
)

const msgSessionExpired = "Session expired, please log in again."

var errQuit = errors.New("quit")

// Backend is the part of api.Client the console drives.
type Backend interface {
	SignUp(ctx context.Context, in model.SignUpInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ListUsers(ctx context.Context, page, size int) (*model.UserPage, error)
	ChangeRole(ctx context.Context, userID string, role model.Role) (string, error)

	ListActiveCourtsPaged(ctx context.Context, page, size int) (*model.CourtPage, error)
	ListCourtsPaged(ctx context.Context, page, size int) (*model.CourtPage, error)
	GetCourt(ctx context.Context, id string) (*model.Court, error)
	CreateCourt(ctx context.Context, in model.CourtInput) (*model.Court, error)
	SetCourtActive(ctx context.Context, id string, active bool) error
	UpdateCourtSchedule(ctx context.Context, id string, in model.ScheduleInput) error
	CourtSchedule(ctx context.Context, id, date string) (*model.Schedule, error)

	CreateBooking(ctx context.Context, in model.BookingInput) (*model.Booking, error)
	MyBookings(ctx context.Context) ([]model.Booking, error)
	CancelBooking(ctx context.Context, id string) (string, error)

	Me(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, changes map[string]string) error
}

type Options struct {
	// LoginRedirectDelay is how long "Login successful!" stays before the
	// dashboard opens.
	LoginRedirectDelay time.Duration
	PageSize           int
	Location           *time.Location
	Rules              booking.Rules
	// Now overrides the clock in tests.
	Now func() time.Time
}

type Console struct {
	api    Backend
	sess   *session.Manager
	bus    *events.Bus
	opts   Options
	logger zerolog.Logger

	in  *bufio.Scanner
	out io.Writer

	path    string
	current *route
	params  map[string]string
	expired atomic.Bool

	view view
}

// view is the data the current page last loaded.
type view struct {
	pager    paging.Pager
	courts   []model.Court
	users    []model.User
	bookings []model.Booking
	court    *model.Court
	date     time.Time
	slots    []booking.Slot
	profile  *model.Profile
}

// New wires a console to a backend and session. It subscribes to session
// expiry on bus so a rejected token sends the user back to the login page.
func New(api Backend, sess *session.Manager, bus *events.Bus, in io.Reader, out io.Writer, logger zerolog.Logger, opts Options) *Console {
	if opts.PageSize <= 0 {
		opts.PageSize = paging.DefaultSize
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Console{
		api:    api,
		sess:   sess,
		bus:    bus,
		opts:   opts,
		logger: logger.With().Str("component", "console").Logger(),
		in:     bufio.NewScanner(in),
		out:    out,
	}
	bus.Subscribe(func(events.Event) error {
		c.expired.Store(true)
		return nil
	}, events.SessionExpired)
	return c
}

// Route is the path of the page on screen.
func (c *Console) Route() string {
	return c.path
}

// Run shows the start page and processes commands until EOF, "quit" or ctx
// is done.
func (c *Console) Run(ctx context.Context) error {
	if c.current == nil {
		c.Navigate(ctx, RouteRoot)
	}
	c.settle(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s> ", c.path)
		line, ok := c.readLine()
		if !ok {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}
		if err := c.Exec(ctx, line); errors.Is(err, errQuit) {
			return nil
		}
	}
}

// Exec runs one command line against the current page.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch {
	case cmd == "quit" || cmd == "exit":
		return errQuit
	case cmd == "help" || cmd == "?":
		c.help()
	case cmd == "go" && len(args) > 0:
		c.Navigate(ctx, args[0])
	case strings.HasPrefix(cmd, "/"):
		c.Navigate(ctx, fields[0])
	case cmd == "nav":
		c.printNav(ctx)
	case cmd == "logout":
		c.logout(ctx)
	case cmd == "refresh":
		c.render(ctx)
	default:
		if c.current == nil || c.current.handle == nil || !c.current.handle(c, ctx, cmd, args) {
			c.say("Unknown command %q. Type help for the commands of this page.", cmd)
		}
	}
	c.settle(ctx)
	return nil
}

// settle applies a session expiry published while the last command ran.
func (c *Console) settle(ctx context.Context) {
	if !c.expired.Swap(false) {
		return
	}
	c.logger.Info().Str("from", c.path).Msg("Session expired, returning to login")
	c.show(ctx, RouteLogin, nil)
	c.say(msgSessionExpired)
}

func (c *Console) logout(ctx context.Context) {
	if err := c.sess.Logout(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear session")
		c.say("Logout failed.")
		return
	}
	c.expired.Store(false)
	c.say("Logged out.")
	c.Navigate(ctx, RouteLogin)
}

func (c *Console) help() {
	c.say("Global: go <path>, nav, refresh, logout, help, quit")
	if c.current != nil {
		for _, h := range c.current.commands {
			c.say("  %s", h)
		}
	}
}

func (c *Console) say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// ask prompts for one form field. def is shown and returned for an empty
// answer.
func (c *Console) ask(label, def string) (string, bool) {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}
	v, ok := c.readLine()
	if !ok {
		return "", false
	}
	if v == "" {
		v = def
	}
	return v, true
}

// askAll fills labels in order and reports false if input ran out.
func (c *Console) askAll(labels ...string) ([]string, bool) {
	out := make([]string, len(labels))
	for i, l := range labels {
		v, ok := c.ask(l, "")
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (c *Console) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (c *Console) now() time.Time {
	return c.opts.Now().In(c.opts.Location)
}

func (c *Console) publish(e events.Event) {
	if err := c.bus.Publish(e); err != nil {
		c.logger.Warn().Err(err).Str("type", string(e.Type)).Msg("Event handler failed")
	}
}
