// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package notify keeps the in-memory notification feed: an ordered,
// newest-first list with per-item read state and a derived unread count.
// The feed is seeded with the demo notifications and mutated through
// mark-read, mark-all-read, delete, and add.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zidio-dev/inkpress/services/client/events"
)

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// Severity classifies a notification for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one feed entry. Field names match the serialized wire
// form used by the shell API.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	ActionURL string    `json:"actionUrl,omitempty"`
}

// Input is a notification as submitted by a producer. The store assigns
// the identifier, timestamp, and unread state.
type Input struct {
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Severity  Severity `json:"type"`
	ActionURL string   `json:"actionUrl,omitempty"`
}

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

var (
	unreadGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkpress",
		Subsystem: "notify",
		Name:      "unread",
		Help:      "Current unread notification count.",
	})

	mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inkpress",
		Subsystem: "notify",
		Name:      "mutations_total",
		Help:      "Feed mutations by operation.",
	}, []string{"op"})
)

// -----------------------------------------------------------------------------
// Store
// -----------------------------------------------------------------------------

// Store is the notification feed.
//
// Thread Safety: Safe for concurrent use.
type Store struct {
	bus    *events.Bus
	logger *slog.Logger

	mu     sync.RWMutex
	items  []Notification
	unread int
}

// NewStore creates a feed seeded with the demo notifications.
func NewStore(bus *events.Bus, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		bus:    bus,
		logger: logger.With(slog.String("component", "notify")),
		items:  seed(time.Now()),
	}
	s.recount()
	return s
}

// seed returns the demo feed, newest first, with timestamps relative to
// now.
func seed(now time.Time) []Notification {
	return []Notification{
		{
			ID:        "1",
			Title:     "New Comment",
			Message:   `Someone commented on your blog post "Getting Started with React"`,
			Severity:  SeverityInfo,
			Read:      false,
			CreatedAt: now.Add(-30 * time.Minute),
			ActionURL: "/blog/1",
		},
		{
			ID:        "2",
			Title:     "Blog Published",
			Message:   `Your blog post "Advanced TypeScript Tips" has been published successfully`,
			Severity:  SeveritySuccess,
			Read:      false,
			CreatedAt: now.Add(-2 * time.Hour),
			ActionURL: "/blog/2",
		},
		{
			ID:        "3",
			Title:     "Weekly Digest",
			Message:   "Check out the top stories from this week in your favorite categories",
			Severity:  SeverityInfo,
			Read:      true,
			CreatedAt: now.Add(-24 * time.Hour),
			ActionURL: "/trending",
		},
	}
}

// All returns the feed newest first. The slice is a copy.
func (s *Store) All() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadCount returns the number of unread entries.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Add prepends a new unread notification and returns it.
func (s *Store) Add(in Input) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Message:   in.Message,
		Severity:  in.Severity,
		CreatedAt: time.Now(),
		ActionURL: in.ActionURL,
	}
	if n.Severity == "" {
		n.Severity = SeverityInfo
	}

	s.mu.Lock()
	s.items = append([]Notification{n}, s.items...)
	s.recount()
	s.mu.Unlock()

	mutations.WithLabelValues("add").Inc()
	s.emit(events.KindNotificationAdded, n.ID)
	return n
}

// MarkAsRead marks one entry read. Unknown identifiers and already-read
// entries are no-ops; it returns whether the entry exists.
func (s *Store) MarkAsRead(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			found = true
			s.items[i].Read = true
			break
		}
	}
	s.recount()
	s.mu.Unlock()

	if found {
		mutations.WithLabelValues("mark_read").Inc()
		s.emit(events.KindNotificationRead, id)
	}
	return found
}

// MarkAllAsRead marks every entry read.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.recount()
	s.mu.Unlock()

	mutations.WithLabelValues("mark_all_read").Inc()
	s.emit(events.KindNotificationRead, "")
}

// Delete removes one entry. Deleting an unread entry lowers the unread
// count; unknown identifiers are no-ops. It returns whether the entry
// existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			found = true
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.recount()
	s.mu.Unlock()

	if found {
		mutations.WithLabelValues("delete").Inc()
		s.emit(events.KindNotificationDeleted, id)
	}
	return found
}

// recount rederives the unread count from the list. Callers hold mu.
func (s *Store) recount() {
	n := 0
	for i := range s.items {
		if !s.items[i].Read {
			n++
		}
	}
	s.unread = n
	unreadGauge.Set(float64(n))
}

func (s *Store) emit(kind events.Kind, id string) {
	if s.bus == nil {
		return
	}
	s.mu.RLock()
	data := events.NotificationData{ID: id, Total: len(s.items), UnreadCount: s.unread}
	s.mu.RUnlock()
	s.bus.Emit(kind, data)
}
