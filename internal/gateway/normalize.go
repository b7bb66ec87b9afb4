package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mcoot/courtbook/internal/model"
)

// flexString accepts a JSON string or number. Any other type reads as "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = ""
	if len(data) == 0 {
		return nil
	}
	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}

// flexInt accepts a JSON number or a numeric string; anything else is 0
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(int(n))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// wireIdentity is an identity as the server sends it
type wireIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// decodeAuth normalizes an auth response. fallback is the identity the caller
// submitted; it fills in whatever the server left out. Each token and user
// field is read on its own, so a field of an unexpected type is skipped
// rather than failing the login.
func decodeAuth(body []byte, fallback model.Identity) (AuthResult, error) {
	fields := objectFields(body)
	data := objectFields(fields["data"])

	token := firstNonEmpty(
		stringField(fields["access_token"]),
		stringField(fields["token"]),
		stringField(fields["jwt"]),
		stringField(data["token"]),
	)
	if token == "" {
		return AuthResult{}, ErrMissingCredential
	}

	identity := fallback
	for _, raw := range []json.RawMessage{fields["user"], fields["profile"], data["user"]} {
		u, ok := identityField(raw)
		if !ok {
			continue
		}
		identity = model.Identity{
			Name:  u.Name,
			Email: firstNonEmpty(u.Email, fallback.Email),
			Role:  model.Role(firstNonEmpty(u.Role, string(fallback.Role))),
		}
		break
	}

	return AuthResult{
		Credential: model.Credential(token),
		Identity:   identity,
	}, nil
}

// objectFields splits a JSON object into its raw fields. Anything that is
// not an object yields nil.
func objectFields(raw json.RawMessage) map[string]json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil
	}
	return fields
}

// stringField reads a JSON string, or "" for any other type
func stringField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// identityField reads a user object. Strings inside it that have the wrong
// type are left empty.
func identityField(raw json.RawMessage) (wireIdentity, bool) {
	fields := objectFields(raw)
	if fields == nil {
		return wireIdentity{}, false
	}
	return wireIdentity{
		Name:  stringField(fields["name"]),
		Email: stringField(fields["email"]),
		Role:  stringField(fields["role"]),
	}, true
}

// decodeList accepts a bare JSON array or an {"items": [...]} envelope.
// Any other shape yields an empty list. Items are decoded one at a time;
// an item that fails to decode is dropped and the rest are kept.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '{' {
		var env struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		trimmed = bytes.TrimSpace(env.Items)
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, err
	}

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeObject accepts a bare object or one wrapped in {"data": {...}}
func decodeObject[T any](body []byte) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return zero, nil
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		trimmed = env.Data
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return zero, err
	}
	return v, nil
}

type wireCourt struct {
	ID       flexString `json:"id"`
	UUID     flexString `json:"uuid"`
	Name     flexString `json:"name"`
	Location flexString `json:"location"`
	Surface  flexString `json:"surface"`
	Status   flexString `json:"status"`
}

func (w wireCourt) toModel() model.Court {
	return model.Court{
		ID:       firstNonEmpty(string(w.ID), string(w.UUID), string(w.Name)),
		Name:     string(w.Name),
		Location: string(w.Location),
		Surface:  model.Surface(w.Surface),
		Status:   string(w.Status),
	}
}

type wireReservation struct {
	ID        flexString      `json:"id"`
	CourtID   flexString      `json:"court_id"`
	CourtName flexString      `json:"court_name"`
	Date      flexString      `json:"date"`
	Time      flexString      `json:"time"`
	GroupSize flexInt         `json:"group_size"`
	Players   json.RawMessage `json:"players"`
	Notes     flexString      `json:"notes"`
}

// toModel converts the wire shape. Status is left empty; the booking rules
// derive it.
func (w wireReservation) toModel() model.Reservation {
	return model.Reservation{
		ID:        string(w.ID),
		CourtID:   string(w.CourtID),
		CourtName: string(w.CourtName),
		Date:      string(w.Date),
		Time:      string(w.Time),
		GroupSize: int(w.GroupSize),
		Players:   playerNames(w.Players),
		Notes:     string(w.Notes),
	}
}

// playerNames reads the players field. Only an array counts; any other
// value means no players.
func playerNames(raw json.RawMessage) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil
	}
	players := make([]string, 0, len(entries))
	for _, entry := range entries {
		players = append(players, playerName(entry))
	}
	return players
}

// playerName reads a player entry that may be a string or an object
func playerName(raw json.RawMessage) string {
	fields := objectFields(raw)
	if fields == nil {
		var s flexString
		_ = json.Unmarshal(raw, &s)
		return string(s)
	}
	var id flexString
	_ = json.Unmarshal(fields["id"], &id)
	return firstNonEmpty(stringField(fields["name"]), stringField(fields["email"]), string(id))
}

func courtsFromWire(ws []wireCourt) []model.Court {
	out := make([]model.Court, len(ws))
	for i, w := range ws {
		out[i] = w.toModel()
	}
	return out
}

func reservationsFromWire(ws []wireReservation) []model.Reservation {
	out := make([]model.Reservation, len(ws))
	for i, w := range ws {
		out[i] = w.toModel()
	}
	return out
}
