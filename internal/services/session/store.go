// Package session owns the login state of the client: who is signed in,
// with which credential, and how that survives a restart.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/courtbook/internal/gateway"
	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/storage"
)

// Persisted keys
const (
	IdentityKey   = "identity"
	CredentialKey = "credential"
)

// Store is the single owner of the session record. Views read it through
// Current and change it only through Login, Register and Logout.
type Store struct {
	auth    gateway.Authenticator
	storage storage.Storage
	logger  *slog.Logger

	// opMu serializes mutating operations in call order
	opMu sync.Mutex

	mu         sync.RWMutex
	identity   *model.Identity
	credential model.Credential
	hydrated   bool
}

// NewStore creates an empty store. Call Rehydrate once before use.
func NewStore(auth gateway.Authenticator, store storage.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		auth:    auth,
		storage: store,
		logger:  logger,
	}
}

// Current returns the session as it stands now
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Credential returns the bearer token for outbound requests, or "" when
// logged out
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.credential)
}

// snapshot copies the record; caller holds s.mu
func (s *Store) snapshot() Session {
	if s.identity == nil {
		return Session{}
	}
	id := *s.identity
	return Session{Identity: &id, Credential: s.credential}
}

// Login verifies credentials through the gateway and, on success, replaces
// the session. On failure the previous session is kept and the gateway error
// is returned as is.
func (s *Store) Login(ctx context.Context, email, password string, role model.Role) (Session, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	res, err := s.auth.Authenticate(ctx, email, password, role)
	if err != nil {
		s.logger.Debug("login failed", slog.String("email", email), slog.String("error", err.Error()))
		return s.Current(), err
	}

	sess, err := s.commit(ctx, res)
	if err != nil {
		return sess, err
	}
	s.logger.Info("logged in", slog.String("email", res.Identity.Email), slog.String("role", string(res.Identity.Role)))
	return sess, nil
}

// Register creates an account and signs straight into it
func (s *Store) Register(ctx context.Context, name, email, password string, role model.Role) (Session, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	res, err := s.auth.CreateAccount(ctx, name, email, password, role)
	if err != nil {
		s.logger.Debug("register failed", slog.String("email", email), slog.String("error", err.Error()))
		return s.Current(), err
	}

	sess, err := s.commit(ctx, res)
	if err != nil {
		return sess, err
	}
	s.logger.Info("registered", slog.String("email", res.Identity.Email), slog.String("role", string(res.Identity.Role)))
	return sess, nil
}

// commit persists and installs an auth result. Identity and credential are
// written together or not at all.
func (s *Store) commit(ctx context.Context, res gateway.AuthResult) (Session, error) {
	// The caller is gone; drop the result rather than touch state
	if err := ctx.Err(); err != nil {
		return s.Current(), err
	}
	if res.Credential == "" {
		return s.Current(), gateway.ErrMissingCredential
	}

	data, err := json.Marshal(res.Identity)
	if err != nil {
		return s.Current(), fmt.Errorf("failed to encode identity: %w", err)
	}

	// Persist first so a restart right after returning sees the new session
	err = s.storage.Put(ctx, map[string]string{
		IdentityKey:   string(data),
		CredentialKey: string(res.Credential),
	})
	if err != nil {
		// Don't leave one key from a partial write behind the old session
		s.mu.RLock()
		prev := s.snapshot()
		s.mu.RUnlock()
		s.restore(ctx, prev)
		return prev, fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := res.Identity
	s.identity = &id
	s.credential = res.Credential
	return s.snapshot(), nil
}

// restore rewrites the persisted keys to match prev after a failed write
func (s *Store) restore(ctx context.Context, prev Session) {
	ctx = context.WithoutCancel(ctx)
	if !prev.IsAuthenticated() {
		_ = s.storage.Delete(ctx, IdentityKey, CredentialKey)
		return
	}
	data, err := json.Marshal(prev.Identity)
	if err != nil {
		return
	}
	_ = s.storage.Put(ctx, map[string]string{
		IdentityKey:   string(data),
		CredentialKey: string(prev.Credential),
	})
}

// Logout clears the session from memory and storage. Calling it while
// logged out is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	// Memory first: the credential stops going out on requests immediately,
	// even if storage is unavailable
	s.mu.Lock()
	wasAuthenticated := s.identity != nil
	s.identity = nil
	s.credential = ""
	s.mu.Unlock()

	if err := s.storage.Delete(context.WithoutCancel(ctx), IdentityKey, CredentialKey); err != nil {
		return fmt.Errorf("failed to clear saved session: %w", err)
	}

	if wasAuthenticated {
		s.logger.Info("logged out")
	}
	return nil
}

// Rehydrate loads the persisted session. Only the first call reads storage;
// later calls return the current session. Bad or partial saved state yields
// an empty session, never an error.
func (s *Store) Rehydrate(ctx context.Context) Session {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return s.snapshot()
	}
	s.hydrated = true

	identity, credential, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("discarding saved session", slog.String("reason", err.Error()))
		_ = s.storage.Delete(context.WithoutCancel(ctx), IdentityKey, CredentialKey)
		s.identity = nil
		s.credential = ""
		return Session{}
	}
	if identity == nil {
		return Session{}
	}

	s.identity = identity
	s.credential = credential
	s.logger.Debug("session restored", slog.String("email", identity.Email))
	return s.snapshot()
}

var (
	errPartialSession = errors.New("saved identity without credential")
	errEmptyIdentity  = errors.New("saved identity is empty")
)

// load reads both keys. (nil, "", nil) means no saved session.
func (s *Store) load(ctx context.Context) (*model.Identity, model.Credential, error) {
	credential, err := s.storage.Get(ctx, CredentialKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, "", err
	}

	raw, err := s.storage.Get(ctx, IdentityKey)
	if errors.Is(err, storage.ErrNotFound) {
		if credential != "" {
			return nil, "", errors.New("saved credential without identity")
		}
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var identity model.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, "", fmt.Errorf("malformed saved identity: %w", err)
	}
	if identity == (model.Identity{}) {
		return nil, "", errEmptyIdentity
	}
	if credential == "" {
		return nil, "", errPartialSession
	}

	return &identity, model.Credential(credential), nil
}
