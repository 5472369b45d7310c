// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import "errors"

var (
	// ErrNotAuthenticated is returned by operations that require an
	// active identity when the session is signed out.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	// ErrEmptyPatch is returned by UpdateIdentity when the patch would
	// change nothing.
	ErrEmptyPatch = errors.New("session: empty identity patch")

	// ErrUnknownProvider is returned for providers outside the supported
	// OAuth set.
	ErrUnknownProvider = errors.New("session: unknown provider")

	// ErrSurfaceClosed indicates the authorization surface was dismissed
	// before completing.
	ErrSurfaceClosed = errors.New("session: authorization surface closed")
)
