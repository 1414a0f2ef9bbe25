// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package related

import "errors"

// User-visible failure conditions. Everything else the fan-out hits
// (provider faults, unresolvable recipients, cache trouble) is logged
// and recovered locally.
var (
	// ErrNotFound means the seed item does not exist or has no shares.
	ErrNotFound = errors.New("item not found")

	// ErrUnknownProvider means no provider is registered under the
	// requested id.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoPrincipal means the viewing principal could not be resolved
	// even after a session restart.
	ErrNoPrincipal = errors.New("cannot resolve principal")
)
