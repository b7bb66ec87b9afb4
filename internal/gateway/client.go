package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mcoot/courtbook/internal/model"
)

const courtsCacheKey = "courts"

// Config holds gateway settings
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api
	BaseURL string
	// Timeout bounds every request
	Timeout time.Duration
	// UserAgent is sent on every request
	UserAgent string
	// CourtCacheTTL keeps the court list between calls. Zero disables it.
	CourtCacheTTL time.Duration
}

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://localhost:8080/api"

// DefaultConfig returns the default gateway configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       30 * time.Second,
		UserAgent:     "courtctl",
		CourtCacheTTL: 30 * time.Second,
	}
}

// Client is the HTTP implementation of Gateway
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
	courts      *cache.Cache
}

// Ensure Client implements the interface
var _ Gateway = (*Client)(nil)

// NewClient creates a new API client. Until SetCredentialSource is called no
// Authorization header is sent.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
	if cfg.CourtCacheTTL > 0 {
		c.courts = cache.New(cfg.CourtCacheTTL, 2*cfg.CourtCacheTTL)
	}

	c.httpClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &transport{
			base:        http.DefaultTransport,
			userAgent:   cfg.UserAgent,
			credentials: c.credential,
			logger:      logger,
		},
	}
	return c
}

// SetCredentialSource sets where the bearer token is read from
func (c *Client) SetCredentialSource(src CredentialSource) {
	c.credentials = src
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) credential() string {
	if c.credentials == nil {
		return ""
	}
	return c.credentials.Credential()
}

// do performs a request and returns the response body. Failures come back
// as *Error of the given kind.
func (c *Client) do(ctx context.Context, kind Kind, op, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, newError(kind, op, 0, fmt.Sprintf("failed to marshal request: %v", err), err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, newError(kind, op, 0, err.Error(), err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context errors stay recognisable through errors.Is
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, newError(kind, op, 0, ctxErr.Error(), ctxErr)
		}
		return nil, newError(kind, op, 0, transportMessage(err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(kind, op, resp.StatusCode, fmt.Sprintf("failed to read response: %v", err), err)
	}

	if resp.StatusCode >= 400 {
		msg := extractMessage(respBody)
		if msg == "" {
			msg = statusMessage(resp.StatusCode)
		}
		return nil, newError(kind, op, resp.StatusCode, msg, nil)
	}

	return respBody, nil
}

// transportMessage unwraps url.Error noise down to the underlying cause
func transportMessage(err error) string {
	var inner interface{ Unwrap() error }
	if errors.As(err, &inner) {
		if cause := inner.Unwrap(); cause != nil {
			return cause.Error()
		}
	}
	return err.Error()
}

type credentialsRequest struct {
	Name     string     `json:"name,omitempty"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// Authenticate logs in; admins use the admin login endpoint
func (c *Client) Authenticate(ctx context.Context, email, password string, role model.Role) (AuthResult, error) {
	path := PathLogin
	if role == model.RoleAdmin {
		path = PathAdminLogin
	}

	req := credentialsRequest{Email: email, Password: password, Role: role}
	return c.auth(ctx, "authenticate", path, req, model.Identity{Email: email, Role: role})
}

// CreateAccount registers a new account and returns its session
func (c *Client) CreateAccount(ctx context.Context, name, email, password string, role model.Role) (AuthResult, error) {
	req := credentialsRequest{Name: name, Email: email, Password: password, Role: role}
	return c.auth(ctx, "create account", PathRegister, req, model.Identity{Name: name, Email: email, Role: role})
}

func (c *Client) auth(ctx context.Context, op, path string, req credentialsRequest, fallback model.Identity) (AuthResult, error) {
	body, err := c.do(ctx, KindAuth, op, http.MethodPost, path, req)
	if err != nil {
		return AuthResult{}, err
	}

	result, err := decodeAuth(body, fallback)
	if err != nil {
		return AuthResult{}, newError(KindAuth, op, http.StatusOK, err.Error(), err)
	}
	return result, nil
}

// FetchCourts lists all courts, served from cache when fresh
func (c *Client) FetchCourts(ctx context.Context) ([]model.Court, error) {
	if c.courts != nil {
		if cached, ok := c.courts.Get(courtsCacheKey); ok {
			return append([]model.Court(nil), cached.([]model.Court)...), nil
		}
	}

	body, err := c.do(ctx, KindFetch, "fetch courts", http.MethodGet, PathCourts, nil)
	if err != nil {
		return nil, err
	}

	wire, err := decodeList[wireCourt](body)
	if err != nil {
		return nil, newError(KindFetch, "fetch courts", http.StatusOK, fmt.Sprintf("failed to parse response: %v", err), err)
	}

	courts := courtsFromWire(wire)
	if c.courts != nil {
		c.courts.SetDefault(courtsCacheKey, append([]model.Court(nil), courts...))
	}
	return courts, nil
}

// FetchOwnReservations lists the current account's reservations
func (c *Client) FetchOwnReservations(ctx context.Context) ([]model.Reservation, error) {
	return c.fetchReservations(ctx, "fetch own reservations", PathMyBookings)
}

// FetchAllReservations lists every reservation
func (c *Client) FetchAllReservations(ctx context.Context) ([]model.Reservation, error) {
	return c.fetchReservations(ctx, "fetch all reservations", PathBookings)
}

func (c *Client) fetchReservations(ctx context.Context, op, path string) ([]model.Reservation, error) {
	body, err := c.do(ctx, KindFetch, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	wire, err := decodeList[wireReservation](body)
	if err != nil {
		return nil, newError(KindFetch, op, http.StatusOK, fmt.Sprintf("failed to parse response: %v", err), err)
	}
	return reservationsFromWire(wire), nil
}

// SubmitReservation creates a reservation from a candidate
func (c *Client) SubmitReservation(ctx context.Context, cand model.Candidate) (model.Reservation, error) {
	const op = "submit reservation"

	body, err := c.do(ctx, KindSubmit, op, http.MethodPost, PathBookings, cand)
	if err != nil {
		return model.Reservation{}, err
	}

	wire, err := decodeObject[wireReservation](body)
	if err != nil {
		return model.Reservation{}, newError(KindSubmit, op, http.StatusOK, fmt.Sprintf("failed to parse response: %v", err), err)
	}

	r := wire.toModel()
	// Servers that echo nothing still leave us with what was sent
	if r.CourtID == "" {
		r.CourtID = cand.CourtID
	}
	if r.Date == "" {
		r.Date = cand.Date
	}
	if r.Time == "" {
		r.Time = cand.Time
	}
	if r.GroupSize == 0 && r.Players == nil {
		r.GroupSize = cand.GroupSize
	}
	if r.Notes == "" {
		r.Notes = cand.Notes
	}
	return r, nil
}

type provisionCourtRequest struct {
	Name     string        `json:"name"`
	Location string        `json:"location"`
	Surface  model.Surface `json:"surface"`
}

// ProvisionCourt creates a court and drops the cached court list
func (c *Client) ProvisionCourt(ctx context.Context, name, location string, surface model.Surface) (model.Court, error) {
	const op = "provision court"

	if surface == "" {
		surface = model.SurfaceHard
	}

	req := provisionCourtRequest{Name: name, Location: location, Surface: surface}
	body, err := c.do(ctx, KindSubmit, op, http.MethodPost, PathCourts, req)
	if err != nil {
		return model.Court{}, err
	}

	if c.courts != nil {
		c.courts.Delete(courtsCacheKey)
	}

	wire, err := decodeObject[wireCourt](body)
	if err != nil {
		return model.Court{}, newError(KindSubmit, op, http.StatusOK, fmt.Sprintf("failed to parse response: %v", err), err)
	}

	court := wire.toModel()
	if court.Name == "" {
		court.Name = name
		court.ID = firstNonEmpty(court.ID, name)
	}
	if court.Location == "" {
		court.Location = location
	}
	if court.Surface == "" {
		court.Surface = surface
	}
	return court, nil
}
