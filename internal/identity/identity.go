// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity defines the engine's contract on the external
// identity/federation subsystem, plus a static directory-backed
// resolver for CLI, server, and test use.
package identity

import (
	"context"

	"github.com/pdiddy/related-engine/pkg/types"
)

// Resolver turns recipient identifiers into concrete entities and
// answers membership questions. Implementations must be idempotent
// and side-effect-free for a given identifier within one request.
type Resolver interface {
	// Resolve maps an identifier to an entity. hint narrows the lookup
	// to one entity type; pass "" to search all types.
	Resolve(ctx context.Context, identifier string, hint types.EntityType) (types.Entity, error)

	// IsMember reports whether entityID is a member of the group or
	// circle groupID.
	IsMember(ctx context.Context, groupID, entityID string) (bool, error)

	// Reconnect restarts the session with the identity backend. The
	// orchestrator calls it once before retrying a failed principal
	// resolution.
	Reconnect(ctx context.Context) error
}
