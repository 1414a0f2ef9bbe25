// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package related ranks resources that are shared with the same
// audience as a seed item. One request runs to completion inside one
// call: resolve the seed, fan out over providers and recipients,
// filter, weight, sort, truncate. See docs/ARCHITECTURE § Ranking.
package related

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/related-engine/internal/cache"
	"github.com/pdiddy/related-engine/internal/identity"
	"github.com/pdiddy/related-engine/internal/provider"
	"github.com/pdiddy/related-engine/internal/weight"
	"github.com/pdiddy/related-engine/pkg/types"
)

// Service is the ranking orchestrator. It holds no per-request state;
// every RelatedToItem call is independent.
type Service struct {
	registry   *provider.Registry
	cache      *cache.Facade
	resolver   identity.Resolver
	pipeline   *weight.Pipeline
	maxResults int
	log        zerolog.Logger
}

// NewService wires the orchestrator. The weight pipeline is built once
// here: the three built-in calculators plus whatever the registered
// providers contribute, in registration order.
func NewService(registry *provider.Registry, facade *cache.Facade, resolver identity.Resolver, cfg types.RankingConfig, log zerolog.Logger) *Service {
	var extras []weight.Calculator
	for _, p := range registry.All() {
		extras = append(extras, p.WeightCalculators()...)
	}

	return &Service{
		registry:   registry,
		cache:      facade,
		resolver:   resolver,
		pipeline:   weight.NewPipeline(extras...),
		maxResults: cfg.MaxResults,
		log:        log.With().Str("component", "related").Logger(),
	}
}

// RelatedToItem returns the resources most related to (providerID,
// itemID) from the viewpoint of principalID, best first. limit caps
// the result count; zero means the configured default, negative means
// unbounded.
func (s *Service) RelatedToItem(ctx context.Context, principalID, providerID, itemID string, limit int) ([]*types.RelatedResource, error) {
	if !s.registry.Has(providerID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}

	current, err := s.cache.RelatedFromItem(ctx, providerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("resolving seed %s/%s: %w", providerID, itemID, err)
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, providerID, itemID)
	}

	principal, err := s.resolvePrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}

	candidates := s.fanOut(ctx, current)
	candidates = filterStrictMatches(current, candidates)

	var visible []*types.RelatedResource
	for _, c := range candidates {
		if s.visibleTo(ctx, c, principal) {
			visible = append(visible, c)
		}
	}

	for _, c := range visible {
		p, err := s.registry.Get(c.ProviderID)
		if err != nil {
			continue
		}
		p.ImproveRelatedResource(ctx, principal, c)
	}

	s.pipeline.Run(current, visible)

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Score > visible[j].Score
	})

	if limit == 0 {
		limit = s.maxResults
	}
	if limit >= 0 && len(visible) > limit {
		visible = visible[:limit]
	}
	return visible, nil
}

// resolvePrincipal resolves the viewing principal, retrying once after
// a session restart before giving up.
func (s *Service) resolvePrincipal(ctx context.Context, principalID string) (types.Entity, error) {
	principal, err := s.resolver.Resolve(ctx, principalID, types.EntityUser)
	if err == nil {
		return principal, nil
	}

	s.log.Warn().Err(err).Str("principal", principalID).Msg("principal resolution failed, restarting session")
	if rerr := s.resolver.Reconnect(ctx); rerr != nil {
		return types.Entity{}, fmt.Errorf("%w: %q: %v", ErrNoPrincipal, principalID, rerr)
	}

	principal, err = s.resolver.Resolve(ctx, principalID, types.EntityUser)
	if err != nil {
		return types.Entity{}, fmt.Errorf("%w: %q: %v", ErrNoPrincipal, principalID, err)
	}
	return principal, nil
}

// fanOut asks every registered provider which items each of the seed's
// recipients can reach, and materializes those items into candidates.
// Providers run concurrently; results are merged under a single
// reader. Any per-entity or per-item fault contributes zero candidates
// for that call and never aborts the request.
func (s *Service) fanOut(ctx context.Context, current *types.RelatedResource) []*types.RelatedResource {
	pool := current.Audience()
	if len(pool) == 0 {
		return nil
	}

	ch := make(chan []*types.RelatedResource, len(s.registry.All()))
	var wg sync.WaitGroup

	for _, p := range s.registry.All() {
		wg.Add(1)
		go func(p provider.Provider) {
			defer wg.Done()
			ch <- s.collectFromProvider(ctx, p, current, pool)
		}(p)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []*types.RelatedResource
	for batch := range ch {
		all = append(all, batch...)
	}
	return all
}

// collectFromProvider walks the recipient pool for one provider. The
// known set, seeded with the seed item's own id when the provider
// matches, prevents duplicate lookups and duplicate results within
// the provider.
func (s *Service) collectFromProvider(ctx context.Context, p provider.Provider, current *types.RelatedResource, pool []string) []*types.RelatedResource {
	providerID := p.ProviderID()

	known := map[string]struct{}{}
	if providerID == current.ProviderID {
		known[current.ItemID] = struct{}{}
	}

	var out []*types.RelatedResource
	for _, entityID := range pool {
		entity, err := s.resolver.Resolve(ctx, entityID, "")
		if err != nil {
			s.log.Debug().Err(err).Str("entity", entityID).Msg("skipping unresolvable recipient")
			continue
		}
		// Group-shared items only fan out through group-level
		// recipients; expanding individual users would explode the
		// candidate space.
		if current.GroupShared && entity.IsUser() {
			continue
		}

		items, err := s.cache.ItemsAvailableToEntity(ctx, providerID, entity)
		if err != nil {
			s.log.Warn().Err(err).
				Str("provider", providerID).
				Str("entity", entityID).
				Msg("provider failed listing items for entity")
			continue
		}

		for _, itemID := range items {
			if _, seen := known[itemID]; seen {
				continue
			}
			known[itemID] = struct{}{}

			resource, err := s.cache.RelatedFromItem(ctx, providerID, itemID)
			if err != nil {
				s.log.Warn().Err(err).
					Str("provider", providerID).
					Str("item", itemID).
					Msg("provider failed resolving item")
				continue
			}
			if resource == nil {
				continue
			}
			out = append(out, resource)
		}
	}
	return out
}
