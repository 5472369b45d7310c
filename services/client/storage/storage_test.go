// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBucket_RoundTrip verifies basic set/get/delete behavior.
func TestBucket_RoundTrip(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	b := db.Bucket("session")

	_, err = b.Get("authToken")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set("authToken", []byte("mock-jwt-token")))

	val, err := b.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, []byte("mock-jwt-token"), val)

	require.NoError(t, b.Delete("authToken"))
	_, err = b.Get("authToken")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is a no-op.
	assert.NoError(t, b.Delete("authToken"))
}

// TestBucket_NamespacesAreDisjoint verifies prefix isolation between owners.
func TestBucket_NamespacesAreDisjoint(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	session := db.Bucket("session")
	other := db.Bucket("sess")

	require.NoError(t, session.Set("k", []byte("session-value")))
	require.NoError(t, other.Set("ion/k", []byte("other-value")))

	// "sess" + "ion/k" must not collide with "session" + "k" because the
	// prefix separator is part of the physical key.
	val, err := session.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("session-value"), val)
}

// TestOpen_RequiresPath verifies that persistent mode needs a directory.
func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{InMemory: false, Path: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

// TestOpen_PersistsAcrossReopen verifies data survives a restart.
func TestOpen_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, db.Bucket("session").Set("userData", []byte(`{"id":"1"}`)))
	require.NoError(t, db.Close())

	db2, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer db2.Close()

	val, err := db2.Bucket("session").Get("userData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(val))
}

// TestDB_CloseIsIdempotent verifies double close does not deadlock.
func TestDB_CloseIsIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.NoError(t, db.Close())
}
