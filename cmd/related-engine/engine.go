// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/related-engine/internal/cache"
	"github.com/pdiddy/related-engine/internal/identity"
	"github.com/pdiddy/related-engine/internal/logging"
	"github.com/pdiddy/related-engine/internal/provider"
	"github.com/pdiddy/related-engine/internal/related"
	"github.com/pdiddy/related-engine/internal/shares"
	"github.com/pdiddy/related-engine/pkg/types"
)

// engine bundles the wired components a command needs.
type engine struct {
	cfg     types.EngineConfig
	log     zerolog.Logger
	service *related.Service
	cache   *cache.Facade
	shares  *shares.Store

	closers []func() error
}

// buildEngine assembles the provider registry, cache, resolver, and
// orchestrator from configuration. Providers are registered explicitly
// based on feature flags; there is no dynamic discovery.
func buildEngine(ctx context.Context, cfg types.EngineConfig) (*engine, error) {
	e := &engine{cfg: cfg, log: logging.New(cfg.Log)}

	var providers []provider.Provider
	if cfg.Shares.Enabled {
		store, err := shares.NewStore(cfg.Shares.DBPath)
		if err != nil {
			return nil, err
		}
		e.shares = store
		e.closers = append(e.closers, store.Close)
		providers = append(providers, shares.NewProvider(store))
	}
	registry := provider.NewRegistry(providers...)

	var store cache.Store
	switch cfg.Cache.Backend {
	case types.CacheBackendRedis:
		redisStore, err := cache.NewRedisStore(ctx, cfg.Cache.RedisURL, cfg.Cache.Namespace)
		if err != nil {
			e.close()
			return nil, err
		}
		e.closers = append(e.closers, redisStore.Close)
		store = redisStore
	default:
		store = cache.NewMemoryStore()
	}

	e.cache = cache.New(store, registry, cfg.Cache.TTL, e.log)
	if e.shares != nil {
		e.shares.SetFlusher(e.cache)
	}

	resolver, err := identity.NewStaticResolver(cfg.Identity.DirectoryPath)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("loading identity directory: %w", err)
	}

	e.service = related.NewService(registry, e.cache, resolver, cfg.Ranking, e.log)
	return e, nil
}

func (e *engine) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}
