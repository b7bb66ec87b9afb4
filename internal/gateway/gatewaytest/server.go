// Package gatewaytest provides an in-memory stand-in for the booking API,
// for tests and local development. It implements just enough of the server
// contract to drive the client; it is not a reference server.
package gatewaytest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/courtbook/internal/middleware"
)

// Shape selects which of the response layouts seen in the wild the server
// answers with
type Shape int

const (
	// ShapePlain: bare arrays, {"access_token", "user"} auth responses
	ShapePlain Shape = iota
	// ShapeWrapped: {"items": [...]} lists, {"data": {"token", "user"}} auth
	// responses, {"data": {...}} created objects
	ShapeWrapped
)

type account struct {
	Name         string
	Email        string
	Role         string
	PasswordHash []byte
}

// Request is a request the server received
type Request struct {
	Method        string
	Path          string
	Authorization string
}

// Server is a fake booking API
type Server struct {
	mu           sync.Mutex
	shape        Shape
	accounts     map[string]*account
	tokens       map[string]string // token -> email
	courts       []map[string]any
	reservations []map[string]any // each carries an "owner" key, stripped on output
	requests     []Request
	omitToken    bool
	failures     map[string]int // "METHOD path" -> status

	router *mux.Router
}

// New creates a fake API server handler
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		failures: make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(middleware.Recovery(logger, nil))
	r.Use(middleware.Logging(logger))
	r.Use(s.record)

	r.HandleFunc("/auth/login", s.login(false)).Methods(http.MethodPost)
	r.HandleFunc("/auth/admin/login", s.login(true)).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/courts", s.listCourts).Methods(http.MethodGet)
	r.HandleFunc("/courts", s.requireAdmin(s.createCourt)).Methods(http.MethodPost)
	r.HandleFunc("/bookings/my", s.requireAuth(s.myBookings)).Methods(http.MethodGet)
	r.HandleFunc("/bookings", s.requireAdmin(s.allBookings)).Methods(http.MethodGet)
	r.HandleFunc("/bookings", s.requireAuth(s.createBooking)).Methods(http.MethodPost)

	s.router = r
	return s
}

// Start runs the server on a local port until the test ends.
// The returned URL is the API base URL.
func Start(tb interface {
	Helper()
	Cleanup(func())
}, logger *slog.Logger) (*Server, string) {
	tb.Helper()
	s := New(logger)
	ts := httptest.NewServer(s)
	tb.Cleanup(ts.Close)
	return s, ts.URL
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetShape switches the response layout
func (s *Server) SetShape(shape Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shape = shape
}

// OmitToken makes auth responses succeed without any token field
func (s *Server) OmitToken(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitToken = omit
}

// Fail makes every request matching method and path answer with status.
// A status of 0 clears the failure.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, method+" "+path)
		return
	}
	s.failures[method+" "+path] = status
}

// AddAccount registers an account directly
func (s *Server) AddAccount(name, email, password, role string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = &account{Name: name, Email: email, Role: role, PasswordHash: hash}
}

// AddCourt seeds a court. Fields are sent to clients as given.
func (s *Server) AddCourt(court map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courts = append(s.courts, court)
}

// AddReservation seeds a reservation owned by ownerEmail. Fields are sent to
// clients as given, so tests can seed drifted data such as a group of 1.
func (s *Server) AddReservation(ownerEmail string, reservation map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := copyMap(reservation)
	r["owner"] = ownerEmail
	s.reservations = append(s.reservations, r)
}

// Requests returns the requests received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests counts received requests matching method and path
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Handlers

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		status := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type credentialsBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) login(adminEndpoint bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentialsBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		acct, ok := s.accounts[body.Email]
		if !ok || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(body.Password)) != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		if adminEndpoint && acct.Role != "admin" {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Admin access required"})
			return
		}

		s.writeAuth(w, http.StatusOK, acct)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
		return
	}
	if body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "email and password are required"}},
		})
		return
	}
	role := body.Role
	if role == "" {
		role = "user"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[body.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"detail": "Email already registered"})
		return
	}

	acct := &account{Name: body.Name, Email: body.Email, Role: role, PasswordHash: hash}
	s.accounts[body.Email] = acct
	s.writeAuth(w, http.StatusCreated, acct)
}

// writeAuth issues a token; caller holds s.mu
func (s *Server) writeAuth(w http.ResponseWriter, status int, acct *account) {
	token := uuid.NewString()
	s.tokens[token] = acct.Email

	user := map[string]string{"name": acct.Name, "email": acct.Email, "role": acct.Role}

	if s.omitToken {
		writeJSON(w, status, map[string]any{"user": user})
		return
	}
	if s.shape == ShapeWrapped {
		writeJSON(w, status, map[string]any{"data": map[string]any{"token": token, "user": user}})
		return
	}
	writeJSON(w, status, map[string]any{"access_token": token, "token_type": "bearer", "user": user})
}

func (s *Server) listCourts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeList(w, s.courts)
}

func (s *Server) createCourt(w http.ResponseWriter, r *http.Request, _ *account) {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Surface  string `json:"surface"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Court name is required"})
		return
	}

	court := map[string]any{
		"id":       uuid.NewString(),
		"name":     body.Name,
		"location": body.Location,
		"surface":  body.Surface,
		"status":   "active",
	}

	s.mu.Lock()
	s.courts = append(s.courts, court)
	shape := s.shape
	s.mu.Unlock()

	writeCreated(w, shape, court)
}

func (s *Server) myBookings(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mine []map[string]any
	for _, res := range s.reservations {
		if res["owner"] == acct.Email {
			mine = append(mine, res)
		}
	}
	s.writeList(w, mine)
}

func (s *Server) allBookings(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeList(w, s.reservations)
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request, acct *account) {
	var body struct {
		CourtID   string `json:"court_id"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		GroupSize int    `json:"group_size"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
		return
	}
	if body.GroupSize < 2 || body.GroupSize > 4 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "group_size must be between 2 and 4"}},
		})
		return
	}

	s.mu.Lock()
	courtName := ""
	for _, c := range s.courts {
		if id, _ := c["id"].(string); id == body.CourtID {
			courtName, _ = c["name"].(string)
		}
	}
	if courtName == "" {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Court not found"})
		return
	}

	res := map[string]any{
		"id":         uuid.NewString(),
		"court_id":   body.CourtID,
		"court_name": courtName,
		"date":       body.Date,
		"time":       body.Time,
		"group_size": body.GroupSize,
		"notes":      body.Notes,
		"owner":      acct.Email,
	}
	s.reservations = append(s.reservations, res)
	shape := s.shape
	s.mu.Unlock()

	writeCreated(w, shape, withoutOwner(res))
}

type authedHandler func(w http.ResponseWriter, r *http.Request, acct *account)

func (s *Server) authenticate(r *http.Request) *account {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return nil
	}
	return s.accounts[email]
}

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct := s.authenticate(r)
		if acct == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next(w, r, acct)
	}
}

func (s *Server) requireAdmin(next authedHandler) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request, acct *account) {
		if acct.Role != "admin" {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error": map[string]string{"code": "FORBIDDEN", "message": "Admin access required"},
			})
			return
		}
		next(w, r, acct)
	})
}

// writeList writes items in the configured shape; caller holds s.mu
func (s *Server) writeList(w http.ResponseWriter, items []map[string]any) {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, withoutOwner(it))
	}
	if s.shape == ShapeWrapped {
		writeJSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeCreated(w http.ResponseWriter, shape Shape, obj map[string]any) {
	if shape == ShapeWrapped {
		writeJSON(w, http.StatusCreated, map[string]any{"data": obj})
		return
	}
	writeJSON(w, http.StatusCreated, obj)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func withoutOwner(m map[string]any) map[string]any {
	out := copyMap(m)
	delete(out, "owner")
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
