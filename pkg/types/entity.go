// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EntityType classifies the principals a resource can be shared with.
type EntityType string

const (
	EntityUser   EntityType = "user"
	EntityGroup  EntityType = "group"
	EntityCircle EntityType = "circle"
)

// Entity is a resolved sharing principal: a concrete user, a group, or
// a circle. Resolution from a bare identifier is performed by the
// identity collaborator; the engine only inspects ID and Type.
type Entity struct {
	// ID is the federation-wide identifier (e.g. "u:alice", "g:staff").
	ID string `json:"id" yaml:"id"`

	// Type tells the orchestrator whether membership expansion applies.
	Type EntityType `json:"type" yaml:"type"`

	// DisplayName is a human-readable label, used only for display
	// personalization, never for matching.
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// IsUser reports whether the entity resolved to an individual account.
func (e Entity) IsUser() bool { return e.Type == EntityUser }
