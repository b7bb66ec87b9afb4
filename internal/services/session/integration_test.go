package session_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/courtbook/internal/gateway"
	"github.com/mcoot/courtbook/internal/gateway/gatewaytest"
	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/session"
	"github.com/mcoot/courtbook/internal/storage/memory"
	"github.com/mcoot/courtbook/internal/testutil"
)

func TestLogoutStopsBearerHeader(t *testing.T) {
	server, url := gatewaytest.Start(t, testutil.NopLogger())
	server.AddAccount("Alice", "alice@example.com", "secret", "user")
	ctx := context.Background()

	cfg := gateway.DefaultConfig()
	cfg.BaseURL = url
	client := gateway.NewClient(cfg, testutil.NopLogger())
	store := session.NewStore(client, memory.New(), testutil.NopLogger())
	client.SetCredentialSource(store)
	store.Rehydrate(ctx)

	_, err := store.Login(ctx, "alice@example.com", "secret", model.RoleUser)
	require.NoError(t, err)

	_, err = client.FetchOwnReservations(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Logout(ctx))

	_, err = client.FetchOwnReservations(ctx)
	assert.ErrorIs(t, err, gateway.ErrFetch)

	reqs := server.Requests()
	require.GreaterOrEqual(t, len(reqs), 3)
	assert.True(t, strings.HasPrefix(reqs[len(reqs)-2].Authorization, "Bearer "))
	assert.Empty(t, reqs[len(reqs)-1].Authorization)
}
