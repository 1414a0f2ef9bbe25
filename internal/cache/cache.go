// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache fronts the two expensive provider lookups with a
// TTL-bounded key/value store: resource-by-item and
// items-available-to-entity. Invalidation is a single namespace flush
// fired whenever any share changes anywhere; staleness is bounded by
// the TTL, so correctness wins over precision.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pdiddy/related-engine/internal/provider"
	"github.com/pdiddy/related-engine/pkg/types"
)

// Facade caches provider lookups. A cache hit deserializes a fresh
// RelatedResource instance per call; callers never share an in-memory
// instance. A corrupt payload is treated as a miss and falls through
// to the live provider.
type Facade struct {
	store    Store
	registry *provider.Registry
	ttl      time.Duration
	log      zerolog.Logger
}

// New builds the facade over store and the provider registry.
func New(store Store, registry *provider.Registry, ttl time.Duration, log zerolog.Logger) *Facade {
	return &Facade{
		store:    store,
		registry: registry,
		ttl:      ttl,
		log:      log.With().Str("component", "cache").Logger(),
	}
}

// RelatedFromItem returns the provider's resolution of itemID, cached.
// A missing item is (nil, nil), mirroring the provider contract; nil
// results are not cached.
func (f *Facade) RelatedFromItem(ctx context.Context, providerID, itemID string) (*types.RelatedResource, error) {
	p, err := f.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("related/%s/%s", providerID, itemID)
	if payload, ok := f.read(ctx, key); ok {
		resource := &types.RelatedResource{}
		if err := json.Unmarshal([]byte(payload), resource); err == nil {
			return resource, nil
		}
		f.log.Warn().Str("key", key).Msg("corrupt cache payload, falling through to provider")
	}

	resource, err := p.RelatedFromItem(ctx, itemID)
	if err != nil || resource == nil {
		return resource, err
	}

	if payload, err := json.Marshal(resource); err == nil {
		f.write(ctx, key, string(payload))
	}
	return resource, nil
}

// ItemsAvailableToEntity returns the provider's item list for entity,
// cached as a plain string list.
func (f *Facade) ItemsAvailableToEntity(ctx context.Context, providerID string, entity types.Entity) ([]string, error) {
	p, err := f.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avail/%s/%s", providerID, entity.ID)
	if payload, ok := f.read(ctx, key); ok {
		var items []string
		if err := json.Unmarshal([]byte(payload), &items); err == nil {
			return items, nil
		}
		f.log.Warn().Str("key", key).Msg("corrupt cache payload, falling through to provider")
	}

	items, err := p.ItemsAvailableToEntity(ctx, entity)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		f.write(ctx, key, string(payload))
	}
	return items, nil
}

// Flush clears the whole cache namespace.
func (f *Facade) Flush(ctx context.Context) error {
	return f.store.Clear(ctx)
}

// OnShareCreated invalidates the cache after a share is created.
func (f *Facade) OnShareCreated(ctx context.Context) {
	f.flushOnShareChange(ctx, "created")
}

// OnShareDeleted invalidates the cache after a share is deleted.
func (f *Facade) OnShareDeleted(ctx context.Context) {
	f.flushOnShareChange(ctx, "deleted")
}

func (f *Facade) flushOnShareChange(ctx context.Context, event string) {
	if err := f.store.Clear(ctx); err != nil {
		f.log.Warn().Err(err).Str("event", event).Msg("cache flush failed")
	}
}

// read fetches key from the store. Store errors are downgraded to
// misses so an unavailable cache never fails a ranking request.
func (f *Facade) read(ctx context.Context, key string) (string, bool) {
	payload, ok, err := f.store.Get(ctx, key)
	if err != nil {
		f.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return "", false
	}
	return payload, ok
}

func (f *Facade) write(ctx context.Context, key, payload string) {
	if err := f.store.Set(ctx, key, payload, f.ttl); err != nil {
		f.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
