// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package events is the observation channel between the client stores and
// whatever presentation shell renders them.
//
// Stores emit typed events after every state mutation; the shell subscribes
// and re-renders from fresh snapshots. The bus is deliberately simple: no
// delivery guarantees beyond in-process synchronous fan-out, a bounded
// replay buffer for late subscribers, and panic isolation so one
// misbehaving handler cannot take down the emitter.
package events

import (
	"time"
)

// Kind identifies the category of a client event.
type Kind string

const (
	// KindSessionChanged fires when the authenticated identity changes
	// (login, logout, profile update, restore at startup).
	KindSessionChanged Kind = "session.changed"

	// KindSessionLoading fires when the session's in-flight flag toggles.
	KindSessionLoading Kind = "session.loading"

	// KindNotificationAdded fires when a notification is prepended.
	KindNotificationAdded Kind = "notification.added"

	// KindNotificationRead fires on mark-read and mark-all-read.
	KindNotificationRead Kind = "notification.read"

	// KindNotificationDeleted fires when a notification is removed.
	KindNotificationDeleted Kind = "notification.deleted"

	// KindPostAdded fires when a catalog post is created.
	KindPostAdded Kind = "catalog.post_added"

	// KindPostUpdated fires when a catalog post is edited.
	KindPostUpdated Kind = "catalog.post_updated"
)

// Event is a single state-change announcement.
type Event struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Kind is the event category.
	Kind Kind `json:"kind"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// Data is a kind-specific payload (one of the *Data structs below).
	Data any `json:"data,omitempty"`
}

// SessionChangedData describes an identity transition.
type SessionChangedData struct {
	// Authenticated is the post-transition authentication state.
	Authenticated bool `json:"authenticated"`

	// Email is the identity's email, empty when unauthenticated.
	Email string `json:"email,omitempty"`
}

// SessionLoadingData carries the new value of the loading flag.
type SessionLoadingData struct {
	Loading bool `json:"loading"`
}

// NotificationData identifies the notification a mutation touched and
// carries the post-mutation counts. For mark-all-read the ID is empty.
type NotificationData struct {
	ID          string `json:"id,omitempty"`
	Total       int    `json:"total"`
	UnreadCount int    `json:"unread_count"`
}

// PostData identifies the catalog post a mutation touched.
type PostData struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
