// Package gateway translates court booking operations into calls against the
// booking API and normalizes whatever shape the server answers with.
package gateway

import (
	"context"

	"github.com/mcoot/courtbook/internal/model"
)

// API paths, relative to the configured base URL
const (
	PathLogin      = "/auth/login"
	PathAdminLogin = "/auth/admin/login"
	PathRegister   = "/auth/register"
	PathCourts     = "/courts"
	PathBookings   = "/bookings"
	PathMyBookings = "/bookings/my"
)

// AuthResult is a normalized login or registration response.
// Both fields are always set on success.
type AuthResult struct {
	Credential model.Credential
	Identity   model.Identity
}

// Authenticator is the part of the gateway the session store depends on
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string, role model.Role) (AuthResult, error)
	CreateAccount(ctx context.Context, name, email, password string, role model.Role) (AuthResult, error)
}

// Gateway is the full set of booking API operations
type Gateway interface {
	Authenticator

	FetchCourts(ctx context.Context) ([]model.Court, error)
	FetchOwnReservations(ctx context.Context) ([]model.Reservation, error)
	// FetchAllReservations is admin-only by server policy
	FetchAllReservations(ctx context.Context) ([]model.Reservation, error)
	SubmitReservation(ctx context.Context, c model.Candidate) (model.Reservation, error)
	// ProvisionCourt is admin-only by server policy
	ProvisionCourt(ctx context.Context, name, location string, surface model.Surface) (model.Court, error)
}

// CredentialSource supplies the bearer token for outbound requests.
// An empty string means no Authorization header.
type CredentialSource interface {
	Credential() string
}
