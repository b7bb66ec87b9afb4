package model

// Role is the authorization role carried by an identity
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleGuest is never issued by the server; it is the role of an empty session
	RoleGuest Role = "guest"
)

// ParseRole converts user input into a Role, defaulting to RoleUser
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// Identity describes the account a session belongs to
type Identity struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// DisplayName returns the name if known, else the email
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// Credential is an opaque bearer token issued alongside an Identity
type Credential string
