package views

import (
	"github.com/mcoot/courtbook/internal/services/guard"
	"github.com/mcoot/courtbook/internal/services/session"
)

// NavItem is an entry in the navigation shown for a session
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// HomePage is the rendered home view
type HomePage struct {
	Greeting string    `json:"greeting"`
	Role     string    `json:"role"`
	Nav      []NavItem `json:"nav"`
}

// Home is the landing view
type Home struct {
	deps Deps
}

// NewHome creates the home view
func NewHome(deps Deps) *Home {
	return &Home{deps: deps}
}

func (v *Home) Path() string                   { return guard.HomePath }
func (v *Home) Requirement() guard.Requirement { return guard.RequireNone }

// Load builds the page for the current session
func (v *Home) Load() HomePage {
	sess := v.deps.Sessions.Current()

	page := HomePage{
		Greeting: "Welcome! Browse courts and book a game.",
		Role:     string(sess.Role()),
		Nav:      Navigation(sess),
	}
	if sess.IsAuthenticated() {
		page.Greeting = "Welcome back, " + sess.Identity.DisplayName() + "!"
	}
	return page
}

// Navigation lists the views reachable for a session
func Navigation(sess session.Session) []NavItem {
	nav := []NavItem{
		{Label: "Courts", Path: CourtsPath},
		{Label: "Book", Path: BookingPath},
	}
	if sess.IsAuthenticated() {
		nav = append(nav, NavItem{Label: "My Bookings", Path: MyBookingsPath})
	}
	if sess.IsAdmin() {
		nav = append(nav, NavItem{Label: "Admin", Path: guard.AdminPath})
	}
	if sess.IsAuthenticated() {
		nav = append(nav, NavItem{Label: "Logout", Path: LogoutPath})
	} else {
		nav = append(nav,
			NavItem{Label: "Login", Path: guard.LoginPath},
			NavItem{Label: "Sign Up", Path: RegisterPath},
		)
	}
	return nav
}
