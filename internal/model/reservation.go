package model

import "fmt"

// ReservationStatus is the display status of a reservation.
// It is always derived from the group size on the client.
type ReservationStatus string

const (
	StatusInvalid   ReservationStatus = "invalid"
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
)

// Candidate is a reservation being composed, not yet accepted by the server
type Candidate struct {
	CourtID   string `json:"court_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	GroupSize int    `json:"group_size"`
	Notes     string `json:"notes"`
}

// Reservation is a reservation as returned by the server
type Reservation struct {
	ID        string   `json:"id,omitempty"`
	CourtID   string   `json:"court_id,omitempty"`
	CourtName string   `json:"court_name,omitempty"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	GroupSize int      `json:"group_size"`
	Players   []string `json:"players,omitempty"`
	Notes     string   `json:"notes,omitempty"`

	// Status is filled in by the booking rules, never taken from the wire
	Status ReservationStatus `json:"status"`
}

// CourtLabel returns the court name, or a label built from the court id
func (r Reservation) CourtLabel() string {
	if r.CourtName != "" {
		return r.CourtName
	}
	return fmt.Sprintf("Court %s", r.CourtID)
}

// Key returns a stable identifier for display, falling back to court/date/time
func (r Reservation) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("%s-%s-%s", r.CourtID, r.Date, r.Time)
}
