package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail wins", `{"detail":"bad","message":"worse"}`, "bad"},
		{"message", `{"message":"worse"}`, "worse"},
		{"error envelope", `{"error":{"code":"X","message":"enveloped"}}`, "enveloped"},
		{"validation list", `{"detail":[{"msg":"one"},{"msg":"two"}]}`, "one; two"},
		{"empty detail falls through", `{"detail":"","message":"m"}`, "m"},
		{"nothing", `{}`, ""},
		{"not json", `oops`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMessage([]byte(tt.body)))
		})
	}
}

func TestNewErrorFallsBackToUnexpected(t *testing.T) {
	err := newError(KindSubmit, "op", 0, "  ", nil)
	assert.Equal(t, UnexpectedError, err.Error())
}

func TestErrorKindsMatchSentinels(t *testing.T) {
	cause := errors.New("cause")
	var err error = newError(KindFetch, "op", 500, "x", cause)

	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrAuth)
	assert.NotErrorIs(t, err, ErrSubmit)
}
