package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrInvalidRole    = errors.New("role must be 'user' or 'admin'")
	ErrInvalidSurface = errors.New("surface must be 'hard', 'clay' or 'grass'")

	// Candidate reservation errors
	ErrMissingCourt  = errors.New("a court must be selected")
	ErrMissingDate   = errors.New("a date is required")
	ErrMissingTime   = errors.New("a time is required")
	ErrGroupTooSmall = errors.New("group too small: minimum 2 players")
	ErrGroupTooLarge = errors.New("group too large: maximum 4 players")
)
