package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies gateway failures
type Kind string

const (
	KindAuth   Kind = "auth"
	KindFetch  Kind = "fetch"
	KindSubmit Kind = "submit"
)

// Sentinels for errors.Is against a *Error of the matching kind
var (
	ErrAuth   = errors.New("authentication failed")
	ErrFetch  = errors.New("fetch failed")
	ErrSubmit = errors.New("submit failed")

	ErrMissingCredential = errors.New("no credential in response")
)

// UnexpectedError is the message used when nothing better is available
const UnexpectedError = "Unexpected error"

// Error is a normalized gateway failure. Message is always human readable.
type Error struct {
	Kind    Kind
	Op      string
	Status  int // HTTP status, 0 for transport failures
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrFetch:
		return e.Kind == KindFetch
	case ErrSubmit:
		return e.Kind == KindSubmit
	}
	return false
}

func newError(kind Kind, op string, status int, message string, err error) *Error {
	if strings.TrimSpace(message) == "" {
		message = UnexpectedError
	}
	return &Error{Kind: kind, Op: op, Status: status, Message: message, Err: err}
}

// errorBody covers the error shapes servers send back
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// extractMessage picks a message from an error response body in priority
// order: detail, message, error envelope. Empty if none is usable.
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if msg := detailMessage(eb.Detail); msg != "" {
		return msg
	}
	if eb.Message != "" {
		return eb.Message
	}
	if eb.Error != nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	return ""
}

// detailMessage accepts a plain string detail or a list of validation
// items each carrying "msg"
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// statusMessage is the generic transport message for a failed status
func statusMessage(status int) string {
	return fmt.Sprintf("request failed with status code %d", status)
}
