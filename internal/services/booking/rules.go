package booking

import (
	"github.com/mcoot/courtbook/internal/model"
)

// Group size thresholds
const (
	MinGroupSize       = 2
	ConfirmedGroupSize = 4
	MaxGroupSize       = 4
)

// Candidate status hints, one per tier of DeriveStatus
const (
	MessageTooSmall  = "Group too small. Minimum 2 players to start."
	MessagePending   = "Reservation pending. Confirmed once 4 players join."
	MessageConfirmed = "Reservation confirmed with 4 players!"
)

// DeriveStatus maps a group size to a reservation status.
// Defined for every int; anything below MinGroupSize is invalid.
func DeriveStatus(groupSize int) model.ReservationStatus {
	switch {
	case groupSize >= ConfirmedGroupSize:
		return model.StatusConfirmed
	case groupSize >= MinGroupSize:
		return model.StatusPending
	default:
		return model.StatusInvalid
	}
}

// StatusMessage returns the hint shown while composing a candidate
func StatusMessage(groupSize int) string {
	switch DeriveStatus(groupSize) {
	case model.StatusConfirmed:
		return MessageConfirmed
	case model.StatusPending:
		return MessagePending
	default:
		return MessageTooSmall
	}
}

// Validate returns the first reason the candidate may not be submitted, or nil
func Validate(c model.Candidate) error {
	switch {
	case c.CourtID == "":
		return model.ErrMissingCourt
	case c.Date == "":
		return model.ErrMissingDate
	case c.Time == "":
		return model.ErrMissingTime
	case c.GroupSize < MinGroupSize:
		return model.ErrGroupTooSmall
	case c.GroupSize > MaxGroupSize:
		return model.ErrGroupTooLarge
	}
	return nil
}

// CanSubmit reports whether the candidate passes the submission gate.
// Stricter than DeriveStatus: a submitted reservation is never invalid.
func CanSubmit(c model.Candidate) bool {
	return Validate(c) == nil
}

// GroupSize returns the group size of a materialized reservation.
// An explicit count wins over the length of the player list.
func GroupSize(r model.Reservation) int {
	if r.GroupSize != 0 {
		return r.GroupSize
	}
	return len(r.Players)
}

// Annotate returns a copy of the reservations with group size and status
// recomputed. Any status already present is overwritten.
func Annotate(reservations []model.Reservation) []model.Reservation {
	out := make([]model.Reservation, len(reservations))
	for i, r := range reservations {
		r.GroupSize = GroupSize(r)
		r.Status = DeriveStatus(r.GroupSize)
		out[i] = r
	}
	return out
}

// Summary counts reservations per derived status
type Summary struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Invalid   int `json:"invalid"`
}

// Summarize counts the reservations by derived status
func Summarize(reservations []model.Reservation) Summary {
	var s Summary
	for _, r := range reservations {
		s.Total++
		switch DeriveStatus(GroupSize(r)) {
		case model.StatusConfirmed:
			s.Confirmed++
		case model.StatusPending:
			s.Pending++
		default:
			s.Invalid++
		}
	}
	return s
}
