// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler processes a single event. Handlers run synchronously on the
// emitting goroutine and must not block.
type Handler func(event Event)

// subscription pairs a handler with its kind filter.
type subscription struct {
	id      string
	handler Handler
	kinds   []Kind
}

// Bus broadcasts events to subscribers and keeps a bounded replay buffer.
//
// Thread Safety: safe for concurrent use.
type Bus struct {
	mu         sync.RWMutex
	subs       map[string]*subscription
	buffer     []Event
	bufferSize int
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithBufferSize overrides the replay buffer capacity (default 256).
func WithBufferSize(size int) BusOption {
	return func(b *Bus) {
		if size > 0 {
			b.bufferSize = size
		}
	}
}

// NewBus creates an event bus with no subscribers.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs:       make(map[string]*subscription),
		bufferSize: 256,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.buffer = make([]Event, 0, b.bufferSize)
	return b
}

// Subscribe registers a handler for the given kinds (no kinds = all).
//
// Outputs:
//
//	string - Subscription ID for Unsubscribe.
func (b *Bus) Subscribe(handler Handler, kinds ...Kind) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{
		id:      uuid.NewString(),
		handler: handler,
		kinds:   kinds,
	}
	b.subs[sub.id] = sub
	return sub.id
}

// Unsubscribe removes a subscription. Returns false if the ID is unknown.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[id]; !ok {
		return false
	}
	delete(b.subs, id)
	return true
}

// Emit broadcasts an event to all matching subscribers and buffers it.
//
// Handler panics are recovered so a broken shell callback cannot corrupt
// store state mid-mutation.
func (b *Bus) Emit(kind Kind, data any) {
	event := Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.Lock()
	if len(b.buffer) >= b.bufferSize {
		b.buffer = b.buffer[1:]
	}
	b.buffer = append(b.buffer, event)
	subs := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		if sub.matches(kind) {
			invoke(sub.handler, event)
		}
	}
}

// Recent returns a copy of the buffered events, oldest first.
func (b *Bus) Recent() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Event, len(b.buffer))
	copy(out, b.buffer)
	return out
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (s *subscription) matches(kind Kind) bool {
	if len(s.kinds) == 0 {
		return true
	}
	for _, k := range s.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func invoke(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked",
				"event_kind", event.Kind,
				"event_id", event.ID,
				"panic", r,
			)
		}
	}()
	handler(event)
}
