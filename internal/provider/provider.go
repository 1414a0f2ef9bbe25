// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider defines the contract every resource-type adapter
// (files, calendars, chat rooms, boards) implements, and the registry
// the orchestrator fans out over.
package provider

import (
	"context"
	"fmt"

	"github.com/pdiddy/related-engine/internal/weight"
	"github.com/pdiddy/related-engine/pkg/types"
)

// Provider adapts one resource type into the engine's common
// RelatedResource shape. Implementations are the Strategy-pattern
// backends of the fan-out step; each must be side-effect-free for
// reads and safe for concurrent use within one request.
type Provider interface {
	// ProviderID returns the stable namespace identifier.
	ProviderID() string

	// RelatedFromItem resolves one item into a fully populated
	// RelatedResource carrying its complete recipient/virtual-group
	// membership. It returns (nil, nil) when the item no longer exists
	// or has no shares; errors are reserved for genuine faults.
	RelatedFromItem(ctx context.Context, itemID string) (*types.RelatedResource, error)

	// ItemsAvailableToEntity lists the provider-local item identifiers
	// the entity can reach. Must be stable and side-effect-free.
	ItemsAvailableToEntity(ctx context.Context, entity types.Entity) ([]string, error)

	// ImproveRelatedResource lets the provider personalize display
	// fields for the viewing principal after ranking. It must not
	// change the score or the recipient sets.
	ImproveRelatedResource(ctx context.Context, principal types.Entity, resource *types.RelatedResource)

	// WeightCalculators returns provider-specific calculators run in
	// addition to the built-in ones.
	WeightCalculators() []weight.Calculator
}

// Registry is the explicit, assembled-at-startup provider list. Which
// providers are registered depends on which optional applications are
// enabled in the configuration; there is no dynamic discovery.
type Registry struct {
	order     []string
	providers map[string]Provider
}

// NewRegistry builds a registry over the given providers, preserving
// registration order for the weighting pipeline.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: map[string]Provider{}}
	for _, p := range providers {
		id := p.ProviderID()
		if _, ok := r.providers[id]; ok {
			continue
		}
		r.order = append(r.order, id)
		r.providers[id] = p
	}
	return r
}

// Get returns the provider for id, or an error when no such provider
// is registered.
func (r *Registry) Get(id string) (Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", id)
	}
	return p, nil
}

// Has reports whether a provider is registered under id.
func (r *Registry) Has(id string) bool {
	_, ok := r.providers[id]
	return ok
}

// All returns the providers in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}
