// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zidio-dev/inkpress/services/client/events"
	"github.com/zidio-dev/inkpress/services/client/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestStore builds a store backed by an in-memory database with the
// simulated latencies shrunk so tests run fast.
func newTestStore(t *testing.T, mutate func(*Config)) (*Store, *storage.Bucket, *events.Bus) {
	t.Helper()

	db, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bucket := db.Bucket("session")
	bus := events.NewBus()
	cfg := Config{
		Bucket:              bucket,
		Bus:                 bus,
		LoginDelay:          5 * time.Millisecond,
		ClosurePollInterval: 5 * time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	store, err := New(cfg)
	require.NoError(t, err)
	return store, bucket, bus
}

// TestStore_LoginRoundTrip verifies a successful email login installs the
// demo admin identity and persists the token/identity pair.
func TestStore_LoginRoundTrip(t *testing.T) {
	store, bucket, _ := newTestStore(t, nil)
	require.NoError(t, store.Initialize(context.Background()))

	ok := store.Login(context.Background(), "jasleen@example.com", "hunter22")
	require.True(t, ok)

	snap := store.Snapshot()
	require.True(t, snap.Authenticated)
	require.NotNil(t, snap.Identity)
	assert.False(t, snap.Loading)
	assert.Equal(t, "1", snap.Identity.ID)
	assert.Equal(t, "Jasleen Kaur", snap.Identity.Name)
	assert.Equal(t, "jasleen@example.com", snap.Identity.Email)
	assert.Equal(t, RoleAdmin, snap.Identity.Role)
	assert.Equal(t, ProviderEmail, snap.Identity.Provider)
	assert.True(t, snap.Identity.Verified)

	token, err := bucket.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, "mock-jwt-token", string(token))
}

// TestStore_LoginValidation verifies empty credentials are rejected
// before any state change.
func TestStore_LoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "empty password", email: "a@b.c", password: ""},
		{name: "both empty", email: "", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, bucket, _ := newTestStore(t, nil)
			require.NoError(t, store.Initialize(context.Background()))

			assert.False(t, store.Login(context.Background(), tt.email, tt.password))
			assert.False(t, store.Authenticated())

			_, err := bucket.Get("authToken")
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

// TestStore_LoginCanceled verifies cancellation during the simulated
// exchange fails the attempt without mutating state.
func TestStore_LoginCanceled(t *testing.T) {
	store, _, _ := newTestStore(t, func(c *Config) {
		c.LoginDelay = 1 * time.Minute
	})
	require.NoError(t, store.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, store.Login(ctx, "a@b.c", "secret"))
	assert.False(t, store.Authenticated())
	assert.False(t, store.Snapshot().Loading)
}

// TestStore_ExchangeFailure verifies a failed credential exchange leaves
// the session signed out.
func TestStore_ExchangeFailure(t *testing.T) {
	store, _, _ := newTestStore(t, func(c *Config) {
		c.Exchange = func(context.Context, string, string) (*Identity, error) {
			return nil, errors.New("upstream unavailable")
		}
	})
	require.NoError(t, store.Initialize(context.Background()))

	assert.False(t, store.Login(context.Background(), "a@b.c", "secret"))
	assert.False(t, store.Authenticated())
}

// TestStore_LogoutIsIdempotent verifies logout clears memory and storage
// and tolerates being called while signed out.
func TestStore_LogoutIsIdempotent(t *testing.T) {
	store, bucket, _ := newTestStore(t, nil)
	require.NoError(t, store.Initialize(context.Background()))
	require.True(t, store.Login(context.Background(), "a@b.c", "secret"))

	store.Logout()
	assert.False(t, store.Authenticated())

	_, err := bucket.Get("authToken")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = bucket.Get("userData")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Second logout is a no-op.
	store.Logout()
	assert.False(t, store.Authenticated())
}

// TestStore_UpdateIdentity verifies partial merges touch only the fields
// named by the patch.
func TestStore_UpdateIdentity(t *testing.T) {
	t.Run("merges named fields only", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)
		require.NoError(t, store.Initialize(context.Background()))
		require.True(t, store.Login(context.Background(), "a@b.c", "secret"))

		bio := "Occasional gardener."
		name := "J. Kaur"
		require.NoError(t, store.UpdateIdentity(IdentityPatch{Bio: &bio, Name: &name}))

		snap := store.Snapshot()
		assert.Equal(t, "J. Kaur", snap.Identity.Name)
		assert.Equal(t, "Occasional gardener.", snap.Identity.Bio)
		assert.Equal(t, "a@b.c", snap.Identity.Email)
		assert.Equal(t, "San Francisco, CA", snap.Identity.Location)
		assert.Equal(t, RoleAdmin, snap.Identity.Role)
	})

	t.Run("persists the merged identity", func(t *testing.T) {
		store, bucket, _ := newTestStore(t, nil)
		require.NoError(t, store.Initialize(context.Background()))
		require.True(t, store.Login(context.Background(), "a@b.c", "secret"))

		loc := "Lisbon, Portugal"
		require.NoError(t, store.UpdateIdentity(IdentityPatch{Location: &loc}))

		second, err := New(Config{Bucket: bucket, Bus: events.NewBus()})
		require.NoError(t, err)
		require.NoError(t, second.Initialize(context.Background()))
		assert.Equal(t, "Lisbon, Portugal", second.Snapshot().Identity.Location)
	})

	t.Run("requires authentication", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)
		require.NoError(t, store.Initialize(context.Background()))

		name := "nobody"
		assert.ErrorIs(t, store.UpdateIdentity(IdentityPatch{Name: &name}), ErrNotAuthenticated)
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)
		require.NoError(t, store.Initialize(context.Background()))
		require.True(t, store.Login(context.Background(), "a@b.c", "secret"))

		assert.ErrorIs(t, store.UpdateIdentity(IdentityPatch{}), ErrEmptyPatch)
	})
}

// TestStore_InitializeRestoresSession verifies a session written by one
// store is restored by a fresh store over the same bucket.
func TestStore_InitializeRestoresSession(t *testing.T) {
	store, bucket, _ := newTestStore(t, nil)
	require.NoError(t, store.Initialize(context.Background()))
	require.True(t, store.Login(context.Background(), "a@b.c", "secret"))

	second, err := New(Config{Bucket: bucket, Bus: events.NewBus()})
	require.NoError(t, err)
	assert.True(t, second.Snapshot().Loading)

	require.NoError(t, second.Initialize(context.Background()))
	snap := second.Snapshot()
	assert.False(t, snap.Loading)
	require.True(t, snap.Authenticated)
	assert.Equal(t, "a@b.c", snap.Identity.Email)
}

// TestStore_InitializeRecoversCorruptState verifies undecodable or
// incomplete persisted state resets to signed out and clears both keys.
func TestStore_InitializeRecoversCorruptState(t *testing.T) {
	tests := []struct {
		name     string
		userData []byte
	}{
		{name: "not json", userData: []byte("{nope")},
		{name: "missing required fields", userData: []byte(`{"id":"1"}`)},
		{name: "unknown role", userData: []byte(`{"id":"1","name":"x","email":"a@b.c","role":"root"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, bucket, _ := newTestStore(t, nil)
			require.NoError(t, bucket.Set("authToken", []byte("mock-jwt-token")))
			require.NoError(t, bucket.Set("userData", tt.userData))

			require.NoError(t, store.Initialize(context.Background()))
			snap := store.Snapshot()
			assert.False(t, snap.Authenticated)
			assert.False(t, snap.Loading)

			_, err := bucket.Get("authToken")
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

// TestStore_EmitsLifecycleEvents verifies a login round trip announces
// loading transitions and the session change on the bus.
func TestStore_EmitsLifecycleEvents(t *testing.T) {
	store, _, bus := newTestStore(t, nil)
	require.NoError(t, store.Initialize(context.Background()))

	var kinds []events.Kind
	bus.Subscribe(func(ev events.Event) { kinds = append(kinds, ev.Kind) },
		events.KindSessionLoading, events.KindSessionChanged)

	require.True(t, store.Login(context.Background(), "a@b.c", "secret"))

	require.Len(t, kinds, 3)
	assert.Equal(t, events.KindSessionLoading, kinds[0])
	assert.Equal(t, events.KindSessionChanged, kinds[1])
	assert.Equal(t, events.KindSessionLoading, kinds[2])
}
