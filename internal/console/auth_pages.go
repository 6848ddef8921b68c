package console

import (
	"context"
	"errors"
	"net/url"
	"time"

	"courtbook/internal/api"
	"courtbook/internal/model"
)

func (c *Console) renderSignUp(_ context.Context, _ url.Values) {
	c.say("Type register to create an account. Already registered? go /login")
}

func (c *Console) handleSignUp(ctx context.Context, cmd string, _ []string) bool {
	if cmd != "register" {
		return false
	}
	v, ok := c.askAll("First name", "Last name", "Email", "Password")
	if !ok {
		return true
	}
	msg, err := c.api.SignUp(ctx, model.SignUpInput{
		FirstName: v[0],
		LastName:  v[1],
		Email:     v[2],
		Password:  v[3],
	})
	if err != nil {
		var ve *api.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			c.say("%s: %s", ve.Field, ve.Message)
			return true
		}
		c.say("%s", api.Message(err, "Error during signup!"))
		return true
	}
	if msg == "" {
		msg = "Registration successful! Check your email to verify your account."
	}
	c.say("%s", msg)
	return true
}

func (c *Console) renderLogin(_ context.Context, _ url.Values) {
	c.say("Type login to sign in. No account yet? go /signup")
}

func (c *Console) handleLogin(ctx context.Context, cmd string, args []string) bool {
	if cmd != "login" {
		return false
	}
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var ok bool
		if email, ok = c.ask("Email", ""); !ok {
			return true
		}
	}
	password, ok := c.ask("Password", "")
	if !ok {
		return true
	}

	token, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.say("%s", loginMessage(err))
		return true
	}
	if _, err := c.sess.Login(ctx, token); err != nil {
		c.logger.Warn().Err(err).Msg("Rejected token from login")
		c.say("Login failed: the server returned an unusable token.")
		return true
	}
	// A stale expiry from a previous session must not undo this login.
	c.expired.Store(false)

	c.say("Login successful!")
	c.wait(ctx, c.opts.LoginRedirectDelay)
	c.Navigate(ctx, RouteDashboard)
	return true
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrUnverified):
		return api.Message(err, "Please verify your email before logging in.")
	case errors.Is(err, api.ErrServer):
		return "Server error, please try again later."
	default:
		return "Invalid credentials or unverified email!"
	}
}

func (c *Console) renderVerify(ctx context.Context, query url.Values) {
	if token := query.Get("token"); token != "" {
		c.verify(ctx, token)
		return
	}
	c.say("Type verify <token> with the token from your email.")
}

func (c *Console) handleVerify(ctx context.Context, cmd string, args []string) bool {
	if cmd != "verify" {
		return false
	}
	if len(args) == 0 {
		c.say("Usage: verify <token>")
		return true
	}
	c.verify(ctx, args[0])
	return true
}

func (c *Console) verify(ctx context.Context, token string) {
	c.say("Verifying your email...")
	msg, err := c.api.VerifyEmail(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrInvalidOrExpiredToken) {
			c.say("Verification failed. This link may be invalid or expired.")
		} else {
			c.say("%s", api.Message(err, "Verification failed."))
		}
		return
	}
	if msg == "" {
		msg = "Email verified. Your account is now active."
	}
	c.say("%s You can log in: go /login", msg)
}

func (c *Console) renderDashboard(ctx context.Context, _ url.Values) {
	claims, err := c.sess.Claims(ctx)
	if err != nil {
		c.say("You are not logged in.")
		return
	}
	c.say("Welcome, %s (%s)", claims.Email(), claims.Role)
	c.printNav(ctx)

	bookings, err := c.api.MyBookings(ctx)
	if err != nil {
		c.say("%s", api.Message(err, "Failed to load your reservations."))
		return
	}
	now := c.now()
	upcoming := 0
	var next *model.Booking
	for i := range bookings {
		b := &bookings[i]
		if !b.Upcoming(now) {
			continue
		}
		upcoming++
		if next == nil || b.StartTime.Before(next.StartTime.Time) {
			next = b
		}
	}
	c.say("Upcoming reservations: %d", upcoming)
	if next != nil {
		c.say("Next: %s on %s", next.CourtName, formatRange(next.StartTime.Time, next.EndTime.Time, c.opts.Location))
	}
}

func formatRange(start, end time.Time, loc *time.Location) string {
	start, end = start.In(loc), end.In(loc)
	return start.Format("2006-01-02 15:04") + "-" + end.Format("15:04")
}
