// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MessageOAuthSuccess is the message type a surface posts when the user
// completes the authorization flow.
const MessageOAuthSuccess = "OAUTH_SUCCESS"

// Message is a notification posted by an authorization surface. Origin
// identifies where the message came from and is checked against the
// session's trusted origin before the message is acted on.
type Message struct {
	Origin string `json:"origin"`
	Type   string `json:"type"`
}

// Surface is an open authorization surface: the detached window (or
// equivalent) where the user completes a third-party sign-in.
//
// Description:
//
//	A Surface delivers Messages until it is dismissed. Closed reports
//	dismissal; the broker polls it because dismissal by the user is not
//	otherwise observable. Close releases the surface and is idempotent.
//
// Thread Safety: implementations must allow Closed and Close to be called
// concurrently with message delivery.
type Surface interface {
	// Messages returns the channel on which the surface posts messages.
	// The channel is closed when the surface is dismissed.
	Messages() <-chan Message

	// Closed reports whether the surface has been dismissed.
	Closed() bool

	// Close dismisses the surface.
	Close() error
}

// Opener launches authorization surfaces. An Opener that cannot present a
// surface (the environment suppresses it) returns an error, which the
// session treats as the blocked-surface fallback pathway.
type Opener interface {
	Open(ctx context.Context, url string) (Surface, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, url string) (Surface, error)

func (f OpenerFunc) Open(ctx context.Context, url string) (Surface, error) {
	return f(ctx, url)
}

// authorizeURL returns the URL the surface is opened against for a
// provider.
func authorizeURL(p Provider) string {
	return fmt.Sprintf("/mock-oauth.html?provider=%s", p)
}

// awaitAuthorization runs the broker loop for one authorization attempt:
// it consumes messages from the surface, discarding any whose origin does
// not match the trusted origin or whose type is not MessageOAuthSuccess,
// and concurrently polls for dismissal. It returns nil on success,
// ErrSurfaceClosed if the surface was dismissed first, or the context
// error on cancellation. The surface is closed before returning on every
// path.
func (s *Store) awaitAuthorization(ctx context.Context, surface Surface) error {
	defer surface.Close()

	ticker := time.NewTicker(s.cfg.ClosurePollInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-surface.Messages():
			if !ok {
				return ErrSurfaceClosed
			}
			if msg.Origin != s.cfg.TrustedOrigin {
				s.logger.Warn("discarding authorization message from untrusted origin",
					slog.String("origin", msg.Origin))
				continue
			}
			if msg.Type != MessageOAuthSuccess {
				continue
			}
			return nil
		case <-ticker.C:
			if surface.Closed() {
				return ErrSurfaceClosed
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
