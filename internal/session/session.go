// Package session owns the bearer credential and the identity it resolves
// to. The identity is the single source of truth for every role-gating
// decision in the client; nothing privileged may be computed before
// resolution has finished.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/yarncraft/storefront/internal/api"
	"github.com/yarncraft/storefront/internal/localstore"
)

// Identity is the resolved authenticated user.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Role  api.Role
}

// Backend is the slice of the API the session needs.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (api.AuthResult, error)
	Register(ctx context.Context, reg api.Registration) (api.AuthResult, error)
	Me(ctx context.Context) (api.Profile, error)
}

// Store holds the credential and resolved identity. It implements
// api.TokenSource so the API client picks up the credential per request.
//
// Construction is two-phase because the API client and the store reference
// each other: New loads the persisted credential, the API client is built
// with the store as its token source, then Bind attaches the client.
type Store struct {
	mu       sync.RWMutex
	local    localstore.Store
	backend  Backend
	token    string
	identity *Identity
	resolved bool
	log      zerolog.Logger
}

// New creates a store and rehydrates the persisted credential, if any.
func New(local localstore.Store, log zerolog.Logger) *Store {
	s := &Store{local: local, log: log}
	raw, ok, err := local.Get(localstore.KeyToken)
	if err != nil {
		log.Warn().Err(err).Msg("session: credential rehydrate failed, starting logged out")
		return s
	}
	if ok {
		s.token = string(raw)
	}
	return s
}

// Bind attaches the backend used for credential exchange and resolution.
func (s *Store) Bind(backend Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = backend
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the resolved identity, or false when absent.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Resolved reports whether resolution has completed since startup or the
// last credential change. Gated views must not render until this is true.
func (s *Store) Resolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// Resolve turns the held credential into an identity. It never returns an
// error: any failure (no credential, expired credential, network or auth
// error) leaves the identity absent and is only logged. It always marks the
// store resolved.
func (s *Store) Resolve(ctx context.Context) {
	s.mu.RLock()
	token := s.token
	backend := s.backend
	s.mu.RUnlock()

	if token == "" || backend == nil {
		s.finishResolve(nil)
		return
	}
	if credentialExpired(token) {
		s.log.Debug().Msg("session: persisted credential expired, skipping resolution")
		s.finishResolve(nil)
		return
	}

	profile, err := backend.Me(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: identity resolution failed")
		s.finishResolve(nil)
		return
	}
	s.finishResolve(&Identity{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Role:  profile.Role,
	})
}

func (s *Store) finishResolve(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
	s.resolved = true
}

// Login exchanges credentials for a token, persists it, and resolves the
// identity. The returned error carries the server message on rejection.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.RLock()
	backend := s.backend
	s.mu.RUnlock()
	if backend == nil {
		return fmt.Errorf("session: no backend bound")
	}

	result, err := backend.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	s.storeToken(result.Token)
	s.Resolve(ctx)
	return nil
}

// Register creates an account, persists its token and resolves the identity.
func (s *Store) Register(ctx context.Context, name, email, password string, role api.Role) error {
	s.mu.RLock()
	backend := s.backend
	s.mu.RUnlock()
	if backend == nil {
		return fmt.Errorf("session: no backend bound")
	}

	result, err := backend.Register(ctx, api.Registration{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	s.storeToken(result.Token)
	s.Resolve(ctx)
	return nil
}

func (s *Store) storeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = nil
	s.resolved = false
	if err := s.local.Set(localstore.KeyToken, []byte(token)); err != nil {
		s.log.Warn().Err(err).Msg("session: credential persist failed, session will not survive restart")
	}
}

// Logout clears the credential and the identity together.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = nil
	s.resolved = true
	if err := s.local.Delete(localstore.KeyToken); err != nil {
		s.log.Warn().Err(err).Msg("session: persisted credential delete failed")
	}
}

// credentialExpired reports whether the token is a JWT whose expiry has
// clearly passed. The signature is not verified; this is only a fast path
// that avoids a doomed round-trip. Tokens without a readable expiry are
// treated as live and left for the server to judge.
func credentialExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
