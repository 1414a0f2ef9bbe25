// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package related

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pdiddy/related-engine/internal/cache"
	"github.com/pdiddy/related-engine/internal/identity"
	"github.com/pdiddy/related-engine/internal/provider"
	"github.com/pdiddy/related-engine/internal/weight"
	"github.com/pdiddy/related-engine/pkg/types"
)

// --- mock provider ---

type mockProvider struct {
	id        string
	resources map[string]*types.RelatedResource
	items     map[string][]string
	itemsErr  error

	availCalls []string
	improved   []string
	calcs      []weight.Calculator
}

func (m *mockProvider) ProviderID() string { return m.id }

func (m *mockProvider) RelatedFromItem(_ context.Context, itemID string) (*types.RelatedResource, error) {
	r, ok := m.resources[itemID]
	if !ok {
		return nil, nil
	}
	return cloneResource(r), nil
}

func (m *mockProvider) ItemsAvailableToEntity(_ context.Context, entity types.Entity) ([]string, error) {
	m.availCalls = append(m.availCalls, entity.ID)
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return m.items[entity.ID], nil
}

func (m *mockProvider) ImproveRelatedResource(_ context.Context, _ types.Entity, resource *types.RelatedResource) {
	m.improved = append(m.improved, resource.ItemID)
}

func (m *mockProvider) WeightCalculators() []weight.Calculator { return m.calcs }

// cloneResource returns an independent copy, mirroring how a real
// provider materializes a fresh instance per call.
func cloneResource(r *types.RelatedResource) *types.RelatedResource {
	data, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	out := &types.RelatedResource{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}

func individualResource(providerID, itemID string, users ...string) *types.RelatedResource {
	r := types.NewRelatedResource(providerID, itemID)
	r.Title = itemID
	for _, u := range users {
		r.AddToVirtualGroup(u)
	}
	return r
}

func groupResource(providerID, itemID string, groups ...string) *types.RelatedResource {
	r := types.NewRelatedResource(providerID, itemID)
	r.Title = itemID
	r.GroupShared = true
	for _, g := range groups {
		r.AddRecipient(g)
	}
	return r
}

func testResolver() *identity.StaticResolver {
	return identity.NewStaticResolverFromEntities(
		[]types.Entity{
			{ID: "u1", Type: types.EntityUser},
			{ID: "u2", Type: types.EntityUser},
			{ID: "u3", Type: types.EntityUser},
			{ID: "g1", Type: types.EntityGroup},
		},
		map[string][]string{"g1": {"u1"}},
	)
}

func newTestService(resolver identity.Resolver, providers ...provider.Provider) *Service {
	registry := provider.NewRegistry(providers...)
	facade := cache.New(cache.NewMemoryStore(), registry, time.Minute, zerolog.Nop())
	return NewService(registry, facade, resolver, types.RankingConfig{MaxResults: 15}, zerolog.Nop())
}

// --- scenarios ---

func TestRelatedToItemExactAudienceMatch(t *testing.T) {
	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": individualResource("local", "seed", "u1", "u2"),
			"x":    individualResource("local", "x", "u1", "u2"),
			"y":    individualResource("local", "y", "u1", "u3"),
		},
		items: map[string][]string{
			"u1": {"seed", "x", "y"},
			"u2": {"x"},
		},
	}

	results, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].ItemID != "x" {
		t.Errorf("result = %s, want x (y has a different audience)", results[0].ItemID)
	}
}

func TestRelatedToItemTimeWindowBoost(t *testing.T) {
	seed := individualResource("local", "seed", "u1")
	seed.SetMeta(types.MetaLinkCreation, types.MetaInt(1000))
	seed.SetMeta(types.MetaLinkCreator, types.MetaString("u2"))
	seed.SetMeta(types.MetaLinkRecipient, types.MetaString("u1"))

	candidate := individualResource("local", "cand", "u1")
	candidate.SetMeta(types.MetaLinkCreation, types.MetaInt(1050))
	candidate.SetMeta(types.MetaLinkCreator, types.MetaString("u2"))
	candidate.SetMeta(types.MetaLinkRecipient, types.MetaString("u1"))

	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": seed,
			"cand": candidate,
		},
		items: map[string][]string{"u1": {"seed", "cand"}},
	}

	results, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	found := false
	for _, imp := range results[0].Improvements {
		if imp.Type == weight.TypeTimeProximity && imp.Quality == weight.QualityHigh {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a %f time-proximity boost, improvements: %v",
			weight.QualityHigh, results[0].Improvements)
	}
}

func TestRelatedToItemViewerExclusion(t *testing.T) {
	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": individualResource("local", "seed", "u1", "u2"),
			"x":    individualResource("local", "x", "u1", "u2"),
		},
		items: map[string][]string{
			"u1": {"seed", "x"},
			"u2": {"x"},
		},
	}

	// u3 is neither in x's audience nor a member of any recipient group.
	results, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u3", "local", "seed", 0)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 for an excluded viewer", len(results))
	}
}

func TestRelatedToItemViewerVisibleThroughGroupMembership(t *testing.T) {
	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": groupResource("local", "seed", "g1"),
			"x":    groupResource("local", "x", "g1"),
		},
		items: map[string][]string{"g1": {"seed", "x"}},
	}

	// u1 is not a direct recipient of x but is a member of g1.
	results, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}
	if len(results) != 1 || results[0].ItemID != "x" {
		t.Errorf("results = %v, want [x]", results)
	}
}

// rankCalculator scores candidates by a fixed per-item quality so
// truncation ordering is deterministic.
type rankCalculator struct {
	quality map[string]float64
}

func (c *rankCalculator) ID() string { return "rank" }

func (c *rankCalculator) Weight(_ *types.RelatedResource, candidates []*types.RelatedResource) {
	for _, cand := range candidates {
		if q, ok := c.quality[cand.ItemID]; ok {
			cand.Improve(q, "rank", false)
		}
	}
}

func TestRelatedToItemTruncationKeepsBestScores(t *testing.T) {
	resources := map[string]*types.RelatedResource{
		"seed": individualResource("local", "seed", "u1"),
	}
	items := []string{"seed"}
	quality := map[string]float64{}
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("c%d", i)
		resources[id] = individualResource("local", id, "u1")
		items = append(items, id)
		quality[id] = 1.0 + float64(i)*0.1
	}

	p := &mockProvider{
		id:        "local",
		resources: resources,
		items:     map[string][]string{"u1": items},
		calcs:     []weight.Calculator{&rankCalculator{quality: quality}},
	}

	results, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u1", "local", "seed", 2)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ItemID != "c5" || results[1].ItemID != "c4" {
		t.Errorf("results = [%s %s], want [c5 c4]", results[0].ItemID, results[1].ItemID)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not in descending score order: %f < %f",
			results[0].Score, results[1].Score)
	}
}

func TestRelatedToItemNegativeLimitUnbounded(t *testing.T) {
	resources := map[string]*types.RelatedResource{
		"seed": individualResource("local", "seed", "u1"),
	}
	items := []string{"seed"}
	for i := 1; i <= 20; i++ {
		id := fmt.Sprintf("c%d", i)
		resources[id] = individualResource("local", id, "u1")
		items = append(items, id)
	}
	p := &mockProvider{
		id:        "local",
		resources: resources,
		items:     map[string][]string{"u1": items},
	}

	results, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u1", "local", "seed", -1)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}
	if len(results) != 20 {
		t.Errorf("len(results) = %d, want all 20", len(results))
	}
}

// --- failure semantics ---

func TestRelatedToItemUnknownProvider(t *testing.T) {
	svc := newTestService(testResolver())

	_, err := svc.RelatedToItem(context.Background(), "u1", "nope", "item", 0)
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestRelatedToItemSeedNotFound(t *testing.T) {
	p := &mockProvider{id: "local", resources: map[string]*types.RelatedResource{}}
	svc := newTestService(testResolver(), p)

	_, err := svc.RelatedToItem(context.Background(), "u1", "local", "gone", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRelatedToItemProviderFailureIsSwallowed(t *testing.T) {
	flaky := &mockProvider{
		id:       "flaky",
		itemsErr: errors.New("backend down"),
	}
	healthy := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": individualResource("local", "seed", "u1"),
			"x":    individualResource("local", "x", "u1"),
		},
		items: map[string][]string{"u1": {"seed", "x"}},
	}

	results, err := newTestService(testResolver(), healthy, flaky).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if err != nil {
		t.Fatalf("a failing provider must not abort the request: %v", err)
	}
	if len(results) != 1 || results[0].ItemID != "x" {
		t.Errorf("results = %v, want [x] from the healthy provider", results)
	}
}

func TestRelatedToItemGroupSharedSkipsUserRecipients(t *testing.T) {
	seed := groupResource("local", "seed", "g1")
	seed.AddRecipient("u2") // a recipient id that resolves to a user

	cand := groupResource("local", "x", "g1")
	cand.AddRecipient("u2")

	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": seed,
			"x":    cand,
		},
		items: map[string][]string{
			"g1": {"seed", "x"},
			"u2": {"unrelated"},
		},
	}

	results, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}
	if len(results) != 1 || results[0].ItemID != "x" {
		t.Fatalf("results = %v, want [x]", results)
	}
	for _, called := range p.availCalls {
		if called == "u2" {
			t.Error("group-shared fan-out expanded a user recipient")
		}
	}
}

func TestRelatedToItemPersonalizationHookRuns(t *testing.T) {
	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": individualResource("local", "seed", "u1"),
			"x":    individualResource("local", "x", "u1"),
			"y":    individualResource("local", "y", "u2"),
		},
		items: map[string][]string{"u1": {"seed", "x", "y"}},
	}

	_, err := newTestService(testResolver(), p).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if err != nil {
		t.Fatalf("RelatedToItem: %v", err)
	}

	if len(p.improved) != 1 || p.improved[0] != "x" {
		t.Errorf("improved = %v, want only the surviving candidate [x]", p.improved)
	}
}

// flakyResolver fails principal resolution until Reconnect is called.
type flakyResolver struct {
	*identity.StaticResolver
	failing bool
}

func (r *flakyResolver) Resolve(ctx context.Context, identifier string, hint types.EntityType) (types.Entity, error) {
	if r.failing {
		return types.Entity{}, errors.New("session expired")
	}
	return r.StaticResolver.Resolve(ctx, identifier, hint)
}

func (r *flakyResolver) Reconnect(_ context.Context) error {
	r.failing = false
	return nil
}

func TestPrincipalResolutionRetriesAfterReconnect(t *testing.T) {
	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": individualResource("local", "seed", "u1"),
			"x":    individualResource("local", "x", "u1"),
		},
		items: map[string][]string{"u1": {"seed", "x"}},
	}

	resolver := &flakyResolver{StaticResolver: testResolver(), failing: true}
	results, err := newTestService(resolver, p).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if err != nil {
		t.Fatalf("expected recovery after session restart, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

// deadResolver never resolves anything.
type deadResolver struct{}

func (deadResolver) Resolve(context.Context, string, types.EntityType) (types.Entity, error) {
	return types.Entity{}, errors.New("identity backend gone")
}
func (deadResolver) IsMember(context.Context, string, string) (bool, error) {
	return false, errors.New("identity backend gone")
}
func (deadResolver) Reconnect(context.Context) error { return nil }

func TestPrincipalResolutionFailureIsFatal(t *testing.T) {
	p := &mockProvider{
		id: "local",
		resources: map[string]*types.RelatedResource{
			"seed": individualResource("local", "seed", "u1"),
		},
		items: map[string][]string{},
	}

	_, err := newTestService(deadResolver{}, p).RelatedToItem(context.Background(), "u1", "local", "seed", 0)
	if !errors.Is(err, ErrNoPrincipal) {
		t.Errorf("err = %v, want ErrNoPrincipal", err)
	}
}
