package views_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/courtbook/internal/gateway"
	"github.com/mcoot/courtbook/internal/gateway/gatewaytest"
	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/booking"
	"github.com/mcoot/courtbook/internal/services/guard"
	"github.com/mcoot/courtbook/internal/services/session"
	"github.com/mcoot/courtbook/internal/storage/memory"
	"github.com/mcoot/courtbook/internal/testutil"
	"github.com/mcoot/courtbook/internal/views"
)

type ViewsSuite struct {
	suite.Suite
	server   *gatewaytest.Server
	client   *gateway.Client
	sessions *session.Store
	deps     views.Deps
	ctx      context.Context
}

func TestViewsSuite(t *testing.T) {
	suite.Run(t, new(ViewsSuite))
}

func (s *ViewsSuite) SetupTest() {
	var url string
	s.server, url = gatewaytest.Start(s.T(), testutil.NopLogger())
	s.server.AddAccount("Alice", "alice@example.com", "secret", "user")
	s.server.AddAccount("Root", "root@example.com", "admin-pw", "admin")
	s.server.AddCourt(map[string]any{"id": "c1", "name": "Centre Court", "location": "North", "surface": "grass"})
	s.server.AddCourt(map[string]any{"id": "c2", "name": "Side Court", "location": "South", "surface": "clay"})

	cfg := gateway.DefaultConfig()
	cfg.BaseURL = url
	s.client = gateway.NewClient(cfg, testutil.NopLogger())
	s.sessions = session.NewStore(s.client, memory.New(), testutil.NopLogger())
	s.client.SetCredentialSource(s.sessions)

	s.deps = views.Deps{
		Gateway:  s.client,
		Sessions: s.sessions,
		Guard:    guard.New(s.sessions),
	}
	s.ctx = context.Background()
}

func (s *ViewsSuite) loginAlice() {
	_, err := s.sessions.Login(s.ctx, "alice@example.com", "secret", model.RoleUser)
	s.Require().NoError(err)
}

func (s *ViewsSuite) loginRoot() {
	_, err := s.sessions.Login(s.ctx, "root@example.com", "admin-pw", model.RoleAdmin)
	s.Require().NoError(err)
}

func (s *ViewsSuite) requireRedirect(err error, to string) {
	var redirect *guard.RedirectError
	s.Require().True(errors.As(err, &redirect), "expected redirect, got %v", err)
	s.Equal(to, redirect.To)
}

// Requirements

func (s *ViewsSuite) TestRequirements() {
	s.Equal(guard.RequireNone, views.NewHome(s.deps).Requirement())
	s.Equal(guard.RequireNone, views.NewCourts(s.deps).Requirement())
	s.Equal(guard.RequireNone, views.NewBooking(s.deps).Requirement())
	s.Equal(guard.RequireAuth, views.NewMyBookings(s.deps).Requirement())
	s.Equal(guard.RequireAdmin, views.NewAdmin(s.deps).Requirement())
	s.Equal(guard.RequireNone, views.NewLogin(s.deps).Requirement())
	s.Equal(guard.RequireNone, views.NewRegister(s.deps).Requirement())
}

// Home

func (s *ViewsSuite) TestHomeGuest() {
	page := views.NewHome(s.deps).Load()

	s.Equal(string(model.RoleGuest), page.Role)
	s.Contains(page.Nav, views.NavItem{Label: "Login", Path: guard.LoginPath})
	s.NotContains(page.Nav, views.NavItem{Label: "My Bookings", Path: views.MyBookingsPath})
}

func (s *ViewsSuite) TestHomeAdminNav() {
	s.loginRoot()
	page := views.NewHome(s.deps).Load()

	s.Equal("Welcome back, Root!", page.Greeting)
	s.Contains(page.Nav, views.NavItem{Label: "Admin", Path: guard.AdminPath})
	s.Contains(page.Nav, views.NavItem{Label: "Logout", Path: views.LogoutPath})
}

// Courts

func (s *ViewsSuite) TestCourtsOpenToGuests() {
	courts, err := views.NewCourts(s.deps).Load(s.ctx)
	s.Require().NoError(err)
	s.Len(courts, 2)
}

// Booking

func (s *ViewsSuite) TestBookingDefaultsToFirstCourt() {
	page, err := views.NewBooking(s.deps).Load(s.ctx, model.Candidate{GroupSize: views.DefaultGroupSize})
	s.Require().NoError(err)

	s.Equal("c1", page.Candidate.CourtID)
	s.Equal(model.StatusPending, page.Status)
	s.Equal(booking.MessagePending, page.StatusMessage)
}

func (s *ViewsSuite) TestBookingKeepsChosenCourt() {
	page, err := views.NewBooking(s.deps).Load(s.ctx, model.Candidate{CourtID: "c2"})
	s.Require().NoError(err)
	s.Equal("c2", page.Candidate.CourtID)
}

func (s *ViewsSuite) TestPreviewBlocksIncompleteCandidate() {
	page := views.Preview(model.Candidate{CourtID: "c1", Date: "2026-05-01", GroupSize: 4})

	s.False(page.CanSubmit)
	s.NotEmpty(page.Blocked)
	s.Equal(booking.MessageConfirmed, page.StatusMessage)
}

func (s *ViewsSuite) TestSubmitRedirectsGuestsToLogin() {
	_, err := views.NewBooking(s.deps).Submit(s.ctx, model.Candidate{CourtID: "c1", Date: "2026-05-01", Time: "10:00", GroupSize: 2})

	s.requireRedirect(err, guard.LoginPath)
	s.Equal(0, s.server.CountRequests(http.MethodPost, "/bookings"))
}

func (s *ViewsSuite) TestSubmitGateNeverReachesServer() {
	s.loginAlice()

	_, err := views.NewBooking(s.deps).Submit(s.ctx, model.Candidate{CourtID: "c1", Date: "2026-05-01", Time: "10:00", GroupSize: 1})

	s.ErrorIs(err, views.ErrCannotSubmit)
	s.ErrorIs(err, model.ErrGroupTooSmall)
	s.Equal(0, s.server.CountRequests(http.MethodPost, "/bookings"))
}

func (s *ViewsSuite) TestSubmitCreatesReservation() {
	s.loginAlice()

	r, err := views.NewBooking(s.deps).Submit(s.ctx, model.Candidate{CourtID: "c1", Date: "2026-05-01", Time: "10:00", GroupSize: 4})
	s.Require().NoError(err)

	s.Equal("Centre Court", r.CourtName)
	s.Equal(model.StatusConfirmed, r.Status)

	mine, err := views.NewMyBookings(s.deps).Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(r.ID, mine[0].ID)
}

func (s *ViewsSuite) TestSubmitSurfacesServerError() {
	s.loginAlice()

	_, err := views.NewBooking(s.deps).Submit(s.ctx, model.Candidate{CourtID: "missing", Date: "2026-05-01", Time: "10:00", GroupSize: 2})

	s.ErrorIs(err, gateway.ErrSubmit)
	s.Equal("Court not found", err.Error())
}

// My bookings

func (s *ViewsSuite) TestMyBookingsRequiresLogin() {
	_, err := views.NewMyBookings(s.deps).Load(s.ctx)

	s.requireRedirect(err, guard.LoginPath)
	s.Equal(0, s.server.CountRequests(http.MethodGet, "/bookings/my"))
}

func (s *ViewsSuite) TestMyBookingsDerivesStatus() {
	s.server.AddReservation("alice@example.com", map[string]any{"id": "r1", "court_id": "c1", "group_size": 3})
	s.server.AddReservation("alice@example.com", map[string]any{"id": "r2", "court_id": "c1", "players": []string{"a"}})
	s.server.AddReservation("root@example.com", map[string]any{"id": "r3", "court_id": "c2", "group_size": 4})
	s.loginAlice()

	mine, err := views.NewMyBookings(s.deps).Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)

	s.Equal(model.StatusPending, mine[0].Status)
	s.Equal(model.StatusInvalid, mine[1].Status)
}

func (s *ViewsSuite) TestMyBookingsShowsDriftedEntryAsInvalid() {
	s.server.AddReservation("alice@example.com", map[string]any{"id": "r1", "court_id": "c1", "group_size": 4})
	s.server.AddReservation("alice@example.com", map[string]any{"id": "r2", "court_id": "c1", "players": 3})
	s.loginAlice()

	mine, err := views.NewMyBookings(s.deps).Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)

	s.Equal(model.StatusConfirmed, mine[0].Status)
	s.Equal("r2", mine[1].ID)
	s.Equal(model.StatusInvalid, mine[1].Status)
}

// Admin

func (s *ViewsSuite) TestAdminRedirectsUsersHome() {
	s.loginAlice()

	_, err := views.NewAdmin(s.deps).Load(s.ctx)
	s.requireRedirect(err, guard.HomePath)
}

func (s *ViewsSuite) TestAdminRedirectsGuestsToLogin() {
	_, err := views.NewAdmin(s.deps).Load(s.ctx)
	s.requireRedirect(err, guard.LoginPath)
}

func (s *ViewsSuite) TestAdminLoad() {
	s.server.AddReservation("alice@example.com", map[string]any{"id": "r1", "court_id": "c1", "group_size": 4})
	s.server.AddReservation("alice@example.com", map[string]any{"id": "r2", "court_id": "c2", "group_size": 2})
	s.loginRoot()

	page, err := views.NewAdmin(s.deps).Load(s.ctx)
	s.Require().NoError(err)

	s.Len(page.Courts, 2)
	s.Len(page.Reservations, 2)
	s.Equal(booking.Summary{Total: 2, Confirmed: 1, Pending: 1}, page.Summary)
}

func (s *ViewsSuite) TestAdminProvisionCourtReloads() {
	s.loginRoot()

	court, page, err := views.NewAdmin(s.deps).ProvisionCourt(s.ctx, "Court Three", "East", model.SurfaceHard)
	s.Require().NoError(err)

	s.Equal("Court Three", court.Name)
	s.Len(page.Courts, 3)
}

func (s *ViewsSuite) TestAdminProvisionCourtNeedsName() {
	s.loginRoot()

	_, _, err := views.NewAdmin(s.deps).ProvisionCourt(s.ctx, "  ", "East", model.SurfaceHard)
	s.ErrorIs(err, views.ErrCourtNameRequired)
	s.Equal(0, s.server.CountRequests(http.MethodPost, "/courts"))
}

// Login, register, logout

func (s *ViewsSuite) TestLoginLandsByRole() {
	_, landing, err := views.NewLogin(s.deps).Submit(s.ctx, "root@example.com", "admin-pw", model.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(guard.AdminPath, landing)

	_, err = views.Logout(s.ctx, s.deps)
	s.Require().NoError(err)

	_, landing, err = views.NewLogin(s.deps).Submit(s.ctx, "alice@example.com", "secret", model.RoleUser)
	s.Require().NoError(err)
	s.Equal(guard.HomePath, landing)
}

func (s *ViewsSuite) TestLoginFailureLeavesGuest() {
	_, _, err := views.NewLogin(s.deps).Submit(s.ctx, "alice@example.com", "wrong", model.RoleUser)

	s.ErrorIs(err, gateway.ErrAuth)
	s.False(s.sessions.Current().IsAuthenticated())
}

func (s *ViewsSuite) TestLoginRequiresFields() {
	_, _, err := views.NewLogin(s.deps).Submit(s.ctx, "", "secret", model.RoleUser)
	s.ErrorIs(err, views.ErrCredentialsMissing)
	s.Empty(s.server.Requests())
}

func (s *ViewsSuite) TestRegisterLandsHome() {
	sess, landing, err := views.NewRegister(s.deps).Submit(s.ctx, "Bob", "bob@example.com", "pw", model.RoleUser)
	s.Require().NoError(err)

	s.Equal(guard.HomePath, landing)
	s.Equal("Bob", sess.Identity.Name)
	s.True(s.sessions.Current().IsAuthenticated())
}

func (s *ViewsSuite) TestLogoutReEvaluatesGuards() {
	s.loginAlice()
	_, err := views.NewMyBookings(s.deps).Load(s.ctx)
	s.Require().NoError(err)

	landing, err := views.Logout(s.ctx, s.deps)
	s.Require().NoError(err)
	s.Equal(guard.HomePath, landing)

	_, err = views.NewMyBookings(s.deps).Load(s.ctx)
	s.requireRedirect(err, guard.LoginPath)
}
