package factory

import (
	"github.com/mcoot/courtbook/internal/gateway"
	"github.com/mcoot/courtbook/internal/storage/memory"
	"github.com/mcoot/courtbook/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Memory is the storage backing the session, for inspecting what was persisted
	Memory *memory.Storage
}

// NewTestApp creates an App talking to baseURL with in-memory session storage
func NewTestApp(baseURL string) *TestApp {
	store := memory.New()

	gwCfg := gateway.DefaultConfig()
	gwCfg.BaseURL = baseURL

	return &TestApp{
		App:    newWithDependencies(store, gwCfg, testutil.NopLogger()),
		Memory: store,
	}
}
