// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package shares

import (
	"context"
	"fmt"

	"github.com/pdiddy/related-engine/internal/weight"
	"github.com/pdiddy/related-engine/pkg/types"
)

// ProviderID is the namespace of the bundled provider.
const ProviderID = "local"

// Provider adapts the share store to the engine's provider contract.
type Provider struct {
	store *Store
}

// NewProvider wraps store.
func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) ProviderID() string { return ProviderID }

// RelatedFromItem materializes itemID from its share records. The
// resource is group-shared as soon as one grantee is a group or
// circle; individual grantees are always collected into the virtual
// group so the viewer-visibility check sees the full audience.
func (p *Provider) RelatedFromItem(ctx context.Context, itemID string) (*types.RelatedResource, error) {
	records, err := p.store.SharesForItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading shares of %q: %w", itemID, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	first := records[0]
	resource := types.NewRelatedResource(ProviderID, itemID)
	resource.Title = first.Title
	resource.Subtitle = "Shared item"
	resource.Tooltip = first.Title
	resource.Icon = "icon-share"
	resource.URL = first.URL

	for _, r := range records {
		if r.EntityType == string(types.EntityUser) {
			resource.AddToVirtualGroup(r.EntityID)
		} else {
			resource.GroupShared = true
			resource.AddRecipient(r.EntityID)
		}
	}

	resource.SetMeta(types.MetaCreation, types.MetaInt(first.Created))
	resource.SetMeta(types.MetaLastUpdate, types.MetaInt(records[len(records)-1].Created))
	resource.SetMeta(types.MetaOwner, types.MetaString(first.Creator))
	resource.SetMeta(types.MetaKeywords, types.MetaList(weight.Keywords(first.Title)...))
	resource.SetMeta(types.MetaLinkCreation, types.MetaInt(first.Created))
	resource.SetMeta(types.MetaLinkCreator, types.MetaString(first.Creator))
	resource.SetMeta(types.MetaLinkRecipient, types.MetaString(first.EntityID))

	return resource, nil
}

func (p *Provider) ItemsAvailableToEntity(ctx context.Context, entity types.Entity) ([]string, error) {
	items, err := p.store.ItemsForEntity(ctx, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("listing items for %q: %w", entity.ID, err)
	}
	return items, nil
}

// ImproveRelatedResource personalizes the subtitle for the viewer.
// Score and recipient sets are left untouched.
func (p *Provider) ImproveRelatedResource(_ context.Context, principal types.Entity, resource *types.RelatedResource) {
	owner := resource.MetaString(types.MetaOwner)
	switch {
	case owner == principal.ID:
		resource.Subtitle = "Shared by you"
	case owner != "":
		resource.Subtitle = fmt.Sprintf("Shared by %s", owner)
	}
}

// WeightCalculators returns nothing: the built-in calculators cover
// share-record signals already.
func (p *Provider) WeightCalculators() []weight.Calculator { return nil }
