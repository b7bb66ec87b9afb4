package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/courtbook/internal/gateway"
	"github.com/mcoot/courtbook/internal/gateway/gatewaytest"
	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/testutil"
)

type staticCredential string

func (s staticCredential) Credential() string { return string(s) }

type ClientSuite struct {
	suite.Suite
	server *gatewaytest.Server
	client *gateway.Client
	ctx    context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	var url string
	s.server, url = gatewaytest.Start(s.T(), testutil.NopLogger())
	s.server.AddAccount("Alice", "alice@example.com", "secret", "user")
	s.server.AddAccount("Root", "root@example.com", "admin-pw", "admin")
	s.server.AddCourt(map[string]any{"id": "c1", "name": "Centre Court", "location": "North", "surface": "grass"})

	cfg := gateway.DefaultConfig()
	cfg.BaseURL = url + "/"
	s.client = gateway.NewClient(cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ClientSuite) login(email, password string, role model.Role) {
	res, err := s.client.Authenticate(s.ctx, email, password, role)
	s.Require().NoError(err)
	s.client.SetCredentialSource(staticCredential(res.Credential))
}

// Auth

func (s *ClientSuite) TestAuthenticateReturnsCredentialAndIdentity() {
	res, err := s.client.Authenticate(s.ctx, "alice@example.com", "secret", model.RoleUser)
	s.Require().NoError(err)

	s.NotEmpty(res.Credential)
	s.Equal(model.Identity{Name: "Alice", Email: "alice@example.com", Role: model.RoleUser}, res.Identity)
}

func (s *ClientSuite) TestAuthenticateWrappedShape() {
	s.server.SetShape(gatewaytest.ShapeWrapped)

	res, err := s.client.Authenticate(s.ctx, "alice@example.com", "secret", model.RoleUser)
	s.Require().NoError(err)
	s.NotEmpty(res.Credential)
	s.Equal("Alice", res.Identity.Name)
}

func (s *ClientSuite) TestAuthenticateAdminUsesAdminEndpoint() {
	_, err := s.client.Authenticate(s.ctx, "root@example.com", "admin-pw", model.RoleAdmin)
	s.Require().NoError(err)

	s.Equal(1, s.server.CountRequests(http.MethodPost, "/auth/admin/login"))
	s.Equal(0, s.server.CountRequests(http.MethodPost, "/auth/login"))
}

func (s *ClientSuite) TestAuthenticateBadPasswordIsAuthError() {
	_, err := s.client.Authenticate(s.ctx, "alice@example.com", "wrong", model.RoleUser)
	s.Require().Error(err)

	s.ErrorIs(err, gateway.ErrAuth)
	s.NotErrorIs(err, gateway.ErrFetch)
	s.Equal("Invalid credentials", err.Error())

	var gwErr *gateway.Error
	s.Require().True(errors.As(err, &gwErr))
	s.Equal(http.StatusUnauthorized, gwErr.Status)
}

func (s *ClientSuite) TestAuthenticateWithoutTokenFails() {
	s.server.OmitToken(true)

	_, err := s.client.Authenticate(s.ctx, "alice@example.com", "secret", model.RoleUser)
	s.ErrorIs(err, gateway.ErrAuth)
	s.ErrorIs(err, gateway.ErrMissingCredential)
}

func (s *ClientSuite) TestCreateAccountDuplicate() {
	res, err := s.client.CreateAccount(s.ctx, "Bob", "bob@example.com", "pw", model.RoleUser)
	s.Require().NoError(err)
	s.Equal("Bob", res.Identity.Name)

	_, err = s.client.CreateAccount(s.ctx, "Bob", "bob@example.com", "pw", model.RoleUser)
	s.ErrorIs(err, gateway.ErrAuth)
	s.Equal("Email already registered", err.Error())
}

func (s *ClientSuite) TestCreateAccountValidationDetailList() {
	_, err := s.client.CreateAccount(s.ctx, "NoPass", "nopass@example.com", "", model.RoleUser)
	s.ErrorIs(err, gateway.ErrAuth)
	s.Equal("email and password are required", err.Error())
}

// Courts

func (s *ClientSuite) TestFetchCourtsBothShapes() {
	for _, shape := range []gatewaytest.Shape{gatewaytest.ShapePlain, gatewaytest.ShapeWrapped} {
		s.server.SetShape(shape)
		cfg := gateway.DefaultConfig()
		cfg.BaseURL = s.client.BaseURL()
		cfg.CourtCacheTTL = 0
		client := gateway.NewClient(cfg, nil)

		courts, err := client.FetchCourts(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(courts, 1)
		s.Equal(model.Court{ID: "c1", Name: "Centre Court", Location: "North", Surface: model.SurfaceGrass}, courts[0])
	}
}

func (s *ClientSuite) TestFetchCourtsIsCached() {
	_, err := s.client.FetchCourts(s.ctx)
	s.Require().NoError(err)
	_, err = s.client.FetchCourts(s.ctx)
	s.Require().NoError(err)

	s.Equal(1, s.server.CountRequests(http.MethodGet, "/courts"))
}

func (s *ClientSuite) TestProvisionCourtInvalidatesCache() {
	s.login("root@example.com", "admin-pw", model.RoleAdmin)

	_, err := s.client.FetchCourts(s.ctx)
	s.Require().NoError(err)

	court, err := s.client.ProvisionCourt(s.ctx, "Court 2", "", "")
	s.Require().NoError(err)
	s.NotEmpty(court.ID)
	s.Equal(model.SurfaceHard, court.Surface)

	courts, err := s.client.FetchCourts(s.ctx)
	s.Require().NoError(err)
	s.Len(courts, 2)
	s.Equal(2, s.server.CountRequests(http.MethodGet, "/courts"))
}

func (s *ClientSuite) TestProvisionCourtAsUserIsSubmitError() {
	s.login("alice@example.com", "secret", model.RoleUser)

	_, err := s.client.ProvisionCourt(s.ctx, "Court 2", "", model.SurfaceClay)
	s.ErrorIs(err, gateway.ErrSubmit)
	s.Equal("Admin access required", err.Error())
}

// Reservations

func (s *ClientSuite) TestSubmitAndFetchOwnReservations() {
	s.login("alice@example.com", "secret", model.RoleUser)

	r, err := s.client.SubmitReservation(s.ctx, model.Candidate{
		CourtID: "c1", Date: "2026-10-20", Time: "18:00", GroupSize: 3, Notes: "doubles",
	})
	s.Require().NoError(err)
	s.NotEmpty(r.ID)
	s.Equal("Centre Court", r.CourtName)
	s.Equal(3, r.GroupSize)
	s.Empty(r.Status, "status is derived by the booking rules, not the gateway")

	mine, err := s.client.FetchOwnReservations(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(r.ID, mine[0].ID)
}

func (s *ClientSuite) TestSubmitWrappedShape() {
	s.server.SetShape(gatewaytest.ShapeWrapped)
	s.login("alice@example.com", "secret", model.RoleUser)

	r, err := s.client.SubmitReservation(s.ctx, model.Candidate{
		CourtID: "c1", Date: "2026-10-20", Time: "18:00", GroupSize: 4,
	})
	s.Require().NoError(err)
	s.NotEmpty(r.ID)
	s.Equal(4, r.GroupSize)
}

func (s *ClientSuite) TestSubmitRejectedByServerIsSubmitError() {
	s.login("alice@example.com", "secret", model.RoleUser)

	_, err := s.client.SubmitReservation(s.ctx, model.Candidate{
		CourtID: "missing", Date: "2026-10-20", Time: "18:00", GroupSize: 2,
	})
	s.ErrorIs(err, gateway.ErrSubmit)
	s.Equal("Court not found", err.Error())
}

func (s *ClientSuite) TestFetchWithoutCredentialIsNotBlockedClientSide() {
	_, err := s.client.FetchOwnReservations(s.ctx)
	s.ErrorIs(err, gateway.ErrFetch)
	s.Equal("Not authenticated", err.Error())

	reqs := s.server.Requests()
	s.Require().NotEmpty(reqs)
	s.Empty(reqs[len(reqs)-1].Authorization)
}

func (s *ClientSuite) TestBearerHeaderAttached() {
	s.login("alice@example.com", "secret", model.RoleUser)

	_, err := s.client.FetchOwnReservations(s.ctx)
	s.Require().NoError(err)

	reqs := s.server.Requests()
	s.Contains(reqs[len(reqs)-1].Authorization, "Bearer ")
}

func (s *ClientSuite) TestFetchAllReservationsNormalizesPlayers() {
	s.server.AddReservation("alice@example.com", map[string]any{
		"id": 7, "court_id": 1, "date": "2026-10-21", "time": "09:00",
		"players": []any{"ann", map[string]any{"name": "ben"}},
	})
	s.login("root@example.com", "admin-pw", model.RoleAdmin)

	all, err := s.client.FetchAllReservations(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("7", all[0].ID)
	s.Equal("1", all[0].CourtID)
	s.Equal(0, all[0].GroupSize)
	s.Equal([]string{"ann", "ben"}, all[0].Players)
}

// Transport failures

func (s *ClientSuite) TestUnreachableServerIsFetchError() {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	cfg := gateway.DefaultConfig()
	cfg.BaseURL = url
	cfg.Timeout = time.Second
	client := gateway.NewClient(cfg, nil)

	_, err := client.FetchCourts(s.ctx)
	s.Require().Error(err)
	s.ErrorIs(err, gateway.ErrFetch)
	s.NotEmpty(err.Error())
}

func (s *ClientSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.client.FetchCourts(ctx)
	s.ErrorIs(err, context.Canceled)
	s.ErrorIs(err, gateway.ErrFetch)
}

func (s *ClientSuite) TestPlainTextErrorFallsBackToStatusMessage() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	cfg := gateway.DefaultConfig()
	cfg.BaseURL = ts.URL
	client := gateway.NewClient(cfg, nil)

	_, err := client.FetchOwnReservations(s.ctx)
	s.ErrorIs(err, gateway.ErrFetch)
	s.Equal("request failed with status code 502", err.Error())
}
