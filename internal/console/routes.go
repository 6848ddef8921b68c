package console

import (
	"context"
	"net/url"
	"path"
	"strings"

	"courtbook/internal/model"
)

const (
	RouteRoot       = "/"
	RouteSignUp     = "/signup"
	RouteLogin      = "/login"
	RouteVerify     = "/verify"
	RouteDashboard  = "/dashboard"
	RouteCourts     = "/courts"
	RouteSchedule   = "/courts/:id/schedule"
	RouteAdmin      = "/admin"
	RouteAdminUsers = "/admin/users"
	RouteMyBookings = "/bookings/my"
	RouteProfile    = "/profile"
)

type route struct {
	pattern   string
	title     string
	protected bool
	// roles, when set, are the roles allowed in; others go to denied.
	roles    []model.Role
	denied   string
	render   func(c *Console, ctx context.Context, query url.Values)
	handle   func(c *Console, ctx context.Context, cmd string, args []string) bool
	commands []string
}

var routes []*route

func init() {
	routes = []*route{
		{pattern: RouteSignUp, title: "Sign Up", render: (*Console).renderSignUp, handle: (*Console).handleSignUp,
			commands: []string{"register  create an account"}},
		{pattern: RouteLogin, title: "Login", render: (*Console).renderLogin, handle: (*Console).handleLogin,
			commands: []string{"login [email]  sign in"}},
		{pattern: RouteVerify, title: "Verify Email", render: (*Console).renderVerify, handle: (*Console).handleVerify,
			commands: []string{"verify <token>  confirm an email address"}},
		{pattern: RouteDashboard, title: "Dashboard", protected: true, render: (*Console).renderDashboard},
		{pattern: RouteCourts, title: "Available Courts", protected: true,
			render: (*Console).renderCourts, handle: (*Console).handleCourts,
			commands: []string{"next, prev, page <n>", "open <n>  show the schedule of court n"}},
		{pattern: RouteSchedule, title: "Court Schedule", protected: true,
			render: (*Console).renderSchedule, handle: (*Console).handleSchedule,
			commands: []string{"date <YYYY-MM-DD>", "book <n|HH:MM|HH:MM-HH:MM>", "back"}},
		{pattern: RouteMyBookings, title: "My Reservations", protected: true,
			render: (*Console).renderMyBookings, handle: (*Console).handleMyBookings,
			commands: []string{"cancel <n>  cancel reservation n"}},
		{pattern: RouteProfile, title: "Profile", protected: true,
			render: (*Console).renderProfile, handle: (*Console).handleProfile,
			commands: []string{"edit  change name or password"}},
		{pattern: RouteAdmin, title: "Admin Panel", protected: true,
			roles: []model.Role{model.RoleAdmin, model.RoleSuperAdmin}, denied: RouteRoot,
			render: (*Console).renderAdmin, handle: (*Console).handleAdmin,
			commands: []string{"next, prev, page <n>", "create  add a court", "toggle <n>  activate or deactivate court n",
				"hours <n>  change opening hours of court n", "users  manage user roles"}},
		{pattern: RouteAdminUsers, title: "Manage Users", protected: true,
			roles: []model.Role{model.RoleSuperAdmin}, denied: RouteRoot,
			render: (*Console).renderAdminUsers, handle: (*Console).handleAdminUsers,
			commands: []string{"next, prev, page <n>", "role <n> <USER|ADMIN|SUPER_ADMIN>"}},
	}
}

// match finds the route for a concrete path and extracts :params.
func match(p string) (*route, map[string]string) {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for _, r := range routes {
		want := strings.Split(strings.Trim(r.pattern, "/"), "/")
		if len(want) != len(segs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, w := range want {
			switch {
			case strings.HasPrefix(w, ":"):
				if segs[i] == "" {
					ok = false
				}
				params[w[1:]] = segs[i]
			case w != segs[i]:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok {
			return r, params
		}
	}
	return nil, nil
}

// Navigate opens target, following redirects for the root path, missing
// sessions and roles.
func (c *Console) Navigate(ctx context.Context, target string) {
	p, rawQuery, _ := strings.Cut(target, "?")
	p = path.Clean("/" + p)
	query, _ := url.ParseQuery(rawQuery)

	for i := 0; i < 4; i++ {
		next := c.redirect(ctx, p)
		if next == "" {
			break
		}
		c.logger.Debug().Str("from", p).Str("to", next).Msg("Redirect")
		p, query = next, nil
	}
	c.show(ctx, p, query)
}

// redirect returns where p should send the user instead, or "".
func (c *Console) redirect(ctx context.Context, p string) string {
	if p == RouteRoot {
		if c.sess.Authenticated(ctx) {
			return RouteDashboard
		}
		return RouteSignUp
	}
	r, _ := match(p)
	if r == nil || !r.protected {
		return ""
	}
	if !c.sess.Authenticated(ctx) {
		return RouteLogin
	}
	if len(r.roles) > 0 && !c.sess.HasRole(ctx, r.roles...) {
		c.say("Access denied.")
		return r.denied
	}
	return ""
}

// show renders p without guards.
func (c *Console) show(ctx context.Context, p string, query url.Values) {
	r, params := match(p)
	if r == nil {
		c.say("Page not found: %s", p)
		return
	}
	c.path, c.current, c.params = p, r, params
	c.view = view{}
	c.logger.Debug().Str("route", p).Msg("Navigate")
	c.header()
	if r.render != nil {
		r.render(c, ctx, query)
	}
}

func (c *Console) render(ctx context.Context) {
	if c.current == nil {
		return
	}
	c.show(ctx, c.path, nil)
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Label string
	Path  string
}

// Nav lists the navigation entries for the current session. Admin Panel
// needs an admin role; Logout needs a stored token.
func (c *Console) Nav(ctx context.Context) []NavItem {
	items := []NavItem{
		{"Courts", RouteCourts},
		{"My Reservations", RouteMyBookings},
		{"Profile", RouteProfile},
	}
	if c.sess.Role(ctx).CanAdmin() {
		items = append(items, NavItem{"Admin Panel", RouteAdmin})
	}
	if c.sess.Authenticated(ctx) {
		items = append(items, NavItem{"Logout", "logout"})
	}
	return items
}

func (c *Console) printNav(ctx context.Context) {
	parts := make([]string, 0, 5)
	for _, it := range c.Nav(ctx) {
		parts = append(parts, it.Label+" ("+it.Path+")")
	}
	c.say("%s", strings.Join(parts, " | "))
}

func (c *Console) header() {
	c.say("")
	c.say("== %s ==", c.current.title)
}
