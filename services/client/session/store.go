// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session holds the client's authentication state: at most one
// active identity, a loading flag, and the durable token/identity pair
// that lets a signed-in session survive restarts. State changes are
// announced on the event bus so the shell can re-render without polling.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zidio-dev/inkpress/services/client/events"
	"github.com/zidio-dev/inkpress/services/client/storage"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	// keyAuthToken is the storage key for the bearer token.
	keyAuthToken = "authToken"

	// keyUserData is the storage key for the serialized identity.
	keyUserData = "userData"

	// mockToken is the token issued by the default credential exchange.
	mockToken = "mock-jwt-token"

	// DefaultLoginDelay simulates the round trip of a real credential
	// exchange.
	DefaultLoginDelay = 1 * time.Second

	// DefaultClosurePollInterval is how often an authorization surface is
	// polled for dismissal.
	DefaultClosurePollInterval = 1 * time.Second

	// DefaultTrustedOrigin is the origin authorization messages must carry
	// to be acted on.
	DefaultTrustedOrigin = "https://app.inkpress.dev"
)

var sessionTracer = otel.Tracer("inkpress/client/session")

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// ExchangeFunc turns submitted credentials into an identity. The default
// exchange accepts any non-empty pair and returns the demo admin account;
// a real deployment swaps in a network-backed implementation.
type ExchangeFunc func(ctx context.Context, email, password string) (*Identity, error)

// MockExchange is the default ExchangeFunc: every non-empty credential
// pair resolves to the demo admin identity for that email.
func MockExchange(_ context.Context, email, _ string) (*Identity, error) {
	return newEmailIdentity(email), nil
}

// Config parameterizes a Store. Zero-value durations and strings fall
// back to the package defaults.
type Config struct {
	// Bucket is the durable namespace the session persists into.
	Bucket *storage.Bucket

	// Bus receives session lifecycle events. Required.
	Bus *events.Bus

	// Opener launches authorization surfaces for provider login. A nil
	// Opener makes every provider login take the blocked-surface
	// fallback pathway.
	Opener Opener

	// Exchange resolves email/password credentials. Defaults to
	// MockExchange.
	Exchange ExchangeFunc

	// LoginDelay is the simulated latency of a credential exchange.
	LoginDelay time.Duration

	// ClosurePollInterval is the surface dismissal poll cadence.
	ClosurePollInterval time.Duration

	// TrustedOrigin is the only origin authorization messages are
	// accepted from.
	TrustedOrigin string

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.Exchange == nil {
		c.Exchange = MockExchange
	}
	if c.LoginDelay <= 0 {
		c.LoginDelay = DefaultLoginDelay
	}
	if c.ClosurePollInterval <= 0 {
		c.ClosurePollInterval = DefaultClosurePollInterval
	}
	if c.TrustedOrigin == "" {
		c.TrustedOrigin = DefaultTrustedOrigin
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// -----------------------------------------------------------------------------
// Store
// -----------------------------------------------------------------------------

// Session is a point-in-time view of the authentication state.
type Session struct {
	// Identity is the active identity, or nil when signed out.
	Identity *Identity

	// Authenticated is true exactly when Identity is non-nil.
	Authenticated bool

	// Loading is true while startup restore or a login is in flight.
	Loading bool
}

// Store is the authentication state container.
//
// Description:
//
//	A Store starts in the loading state; Initialize restores any
//	persisted session and clears the flag. Login and LoginWithProvider
//	report success as a bare boolean — failures are absorbed after
//	logging so a failed attempt leaves the session exactly as it was.
//	Logout and UpdateIdentity are synchronous.
//
// Thread Safety: Safe for concurrent use.
type Store struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.RWMutex
	identity *Identity
	loading  bool
}

// New creates a Store in the loading state. Call Initialize before
// serving reads.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == nil {
		return nil, errors.New("session: nil storage bucket")
	}
	if cfg.Bus == nil {
		return nil, errors.New("session: nil event bus")
	}
	cfg.applyDefaults()
	return &Store{
		cfg:     cfg,
		logger:  cfg.Logger.With(slog.String("component", "session")),
		loading: true,
	}, nil
}

// Snapshot returns the current session view. The identity is copied, so
// callers cannot mutate store state through it.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := Session{Authenticated: s.identity != nil, Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		sess.Identity = &id
	}
	return sess
}

// Authenticated reports whether an identity is active.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// -----------------------------------------------------------------------------
// Startup Restore
// -----------------------------------------------------------------------------

// Initialize restores a persisted session, if one exists.
//
// Description:
//
//	Reads the token and serialized identity from storage. Both present
//	and the identity well-formed: the session resumes authenticated.
//	Anything less — missing token, missing identity, undecodable or
//	malformed identity — clears both keys and resumes signed out. The
//	loading flag is cleared on every path, including errors.
//
// Outputs:
//
//   - error: storage I/O failure. Corrupt state is not an error; it is
//     recovered by resetting to signed out.
//
// Thread Safety: Safe for concurrent use, but meant to be called once at
// startup.
func (s *Store) Initialize(ctx context.Context) error {
	if ctx == nil {
		return errors.New("session: nil context")
	}
	ctx, span := sessionTracer.Start(ctx, "session.Initialize")
	defer span.End()
	defer s.setLoading(false)

	token, err := s.cfg.Bucket.Get(keyAuthToken)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	raw, err := s.cfg.Bucket.Get(keyUserData)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var id Identity
	if err == nil {
		err = json.Unmarshal(raw, &id)
	}
	if err != nil || !id.wellFormed() {
		restoreFailures.Inc()
		s.logger.Warn("persisted session is corrupt, resetting to signed out",
			slog.Any("error", err))
		s.clearPersisted()
		return nil
	}

	s.logger.Info("restored persisted session",
		slog.String("email", id.Email),
		slog.Int("token_bytes", len(token)))
	s.install(&id)
	return nil
}

// -----------------------------------------------------------------------------
// Login
// -----------------------------------------------------------------------------

// Login attempts an email/password sign-in.
//
// Description:
//
//	Rejects empty credentials without touching state. Otherwise waits
//	out the simulated exchange latency, resolves the credentials
//	through the configured exchange, persists the token and identity,
//	and installs the result. The loading flag is raised for the whole
//	attempt and lowered on every path.
//
// Outputs:
//
//   - bool: true on success. All failures — validation, cancellation,
//     exchange, persistence — return false with the session unchanged.
//
// Thread Safety: Safe for concurrent use.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	if ctx == nil {
		return false
	}
	ctx, span := sessionTracer.Start(ctx, "session.Login",
		trace.WithAttributes(attribute.String("method", "email")))
	defer span.End()

	if email == "" || password == "" {
		loginAttempts.WithLabelValues("email", "rejected").Inc()
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	select {
	case <-time.After(s.cfg.LoginDelay):
	case <-ctx.Done():
		span.SetStatus(codes.Error, ctx.Err().Error())
		loginAttempts.WithLabelValues("email", "canceled").Inc()
		return false
	}

	id, err := s.cfg.Exchange(ctx, email, password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("credential exchange failed", slog.Any("error", err))
		loginAttempts.WithLabelValues("email", "failure").Inc()
		return false
	}

	if err := s.persist(id, mockToken); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("failed to persist session", slog.Any("error", err))
		loginAttempts.WithLabelValues("email", "failure").Inc()
		return false
	}

	s.install(id)
	loginAttempts.WithLabelValues("email", "success").Inc()
	s.logger.Info("signed in", slog.String("email", id.Email))
	return true
}

// LoginWithProvider attempts a third-party sign-in.
//
// Description:
//
//	Opens an authorization surface and waits for it to post a success
//	message from the trusted origin, polling for dismissal in the
//	meantime. If the environment refuses to open a surface at all, the
//	attempt falls back to granting the provider identity directly. A
//	dismissed surface or canceled context fails the attempt.
//
// Outputs:
//
//   - bool: true on success; false on dismissal, cancellation, unknown
//     provider, or persistence failure.
//
// Thread Safety: Safe for concurrent use.
func (s *Store) LoginWithProvider(ctx context.Context, provider Provider) bool {
	if ctx == nil {
		return false
	}
	ctx, span := sessionTracer.Start(ctx, "session.LoginWithProvider",
		trace.WithAttributes(attribute.String("method", string(provider))))
	defer span.End()

	if !oauthProviders[provider] {
		s.logger.Warn("unknown oauth provider", slog.String("provider", string(provider)))
		loginAttempts.WithLabelValues(string(provider), "rejected").Inc()
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if s.cfg.Opener != nil {
		surface, err := s.cfg.Opener.Open(ctx, authorizeURL(provider))
		if err == nil {
			if err := s.awaitAuthorization(ctx, surface); err != nil {
				span.SetStatus(codes.Error, err.Error())
				s.logger.Info("authorization abandoned",
					slog.String("provider", string(provider)),
					slog.Any("error", err))
				loginAttempts.WithLabelValues(string(provider), "abandoned").Inc()
				return false
			}
		} else {
			// Surface suppressed: grant directly rather than strand the
			// user on a flow that cannot render.
			s.logger.Warn("authorization surface blocked, using fallback",
				slog.String("provider", string(provider)),
				slog.Any("error", err))
		}
	}

	id := newProviderIdentity(provider)
	if err := s.persist(id, string(provider)+"-"+mockToken); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("failed to persist session", slog.Any("error", err))
		loginAttempts.WithLabelValues(string(provider), "failure").Inc()
		return false
	}

	s.install(id)
	loginAttempts.WithLabelValues(string(provider), "success").Inc()
	s.logger.Info("signed in", slog.String("provider", string(provider)))
	return true
}

// -----------------------------------------------------------------------------
// Logout / Update
// -----------------------------------------------------------------------------

// Logout clears the active identity and the persisted token/identity
// pair. It is synchronous and idempotent; signing out while signed out is
// a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthed := s.identity != nil
	s.identity = nil
	s.mu.Unlock()

	s.clearPersisted()
	authenticatedGauge.Set(0)
	if wasAuthed {
		s.logger.Info("signed out")
	}
	s.emitChanged()
}

// UpdateIdentity merges a partial profile update into the active
// identity, persists the result, and announces the change. Requires an
// active identity; an empty patch is rejected. On persistence failure the
// in-memory identity is left unmodified.
func (s *Store) UpdateIdentity(patch IdentityPatch) error {
	if patch.Empty() {
		return ErrEmptyPatch
	}

	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	merged := patch.apply(*s.identity)
	raw, err := json.Marshal(&merged)
	if err == nil {
		err = s.cfg.Bucket.Set(keyUserData, raw)
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to persist identity update", slog.Any("error", err))
		return err
	}
	s.identity = &merged
	s.mu.Unlock()

	s.logger.Info("identity updated", slog.String("email", merged.Email))
	s.emitChanged()
	return nil
}

// -----------------------------------------------------------------------------
// Internal
// -----------------------------------------------------------------------------

// persist writes the token and serialized identity. On a partial failure
// both keys are removed so storage never holds a token without an
// identity or vice versa.
func (s *Store) persist(id *Identity, token string) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if err := s.cfg.Bucket.Set(keyAuthToken, []byte(token)); err != nil {
		return err
	}
	if err := s.cfg.Bucket.Set(keyUserData, raw); err != nil {
		s.clearPersisted()
		return err
	}
	return nil
}

func (s *Store) clearPersisted() {
	if err := s.cfg.Bucket.Delete(keyAuthToken); err != nil {
		s.logger.Warn("failed to clear persisted token", slog.Any("error", err))
	}
	if err := s.cfg.Bucket.Delete(keyUserData); err != nil {
		s.logger.Warn("failed to clear persisted identity", slog.Any("error", err))
	}
}

func (s *Store) install(id *Identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
	authenticatedGauge.Set(1)
	s.emitChanged()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	changed := s.loading != v
	s.loading = v
	s.mu.Unlock()
	if changed {
		s.cfg.Bus.Emit(events.KindSessionLoading, events.SessionLoadingData{Loading: v})
	}
}

func (s *Store) emitChanged() {
	snap := s.Snapshot()
	data := events.SessionChangedData{Authenticated: snap.Authenticated}
	if snap.Identity != nil {
		data.Email = snap.Identity.Email
	}
	s.cfg.Bus.Emit(events.KindSessionChanged, data)
}
