// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weight

import (
	"github.com/pdiddy/related-engine/pkg/types"
)

// timeWindow pairs a half-width around the seed's link-creation time
// with the multiplier applied inside it.
type timeWindow struct {
	halfWidth int64 // seconds
	quality   float64
}

// TimeCalculator boosts candidates whose sharing link was created by
// the same person within a short time of the seed's. Windows are
// checked narrowest-first and the first match wins per candidate.
type TimeCalculator struct {
	windows []timeWindow
}

// NewTimeCalculator returns the calculator with the reference windows:
// ±120s high, ±900s medium, ±7200s low.
func NewTimeCalculator() *TimeCalculator {
	return &TimeCalculator{
		windows: []timeWindow{
			{halfWidth: 120, quality: QualityHigh},
			{halfWidth: 900, quality: QualityMedium},
			{halfWidth: 7200, quality: QualityLow},
		},
	}
}

func (c *TimeCalculator) ID() string { return "time" }

// Weight applies at most one window boost per candidate. A candidate
// is only eligible when both it and the seed carry link metadata and
// the links were created by the same entity.
func (c *TimeCalculator) Weight(current *types.RelatedResource, candidates []*types.RelatedResource) {
	if !hasLinkMeta(current) {
		return
	}
	ref := current.MetaInt(types.MetaLinkCreation)

	for _, candidate := range candidates {
		if !hasLinkMeta(candidate) {
			continue
		}
		if candidate.MetaString(types.MetaLinkCreator) != current.MetaString(types.MetaLinkCreator) {
			continue
		}

		delta := candidate.MetaInt(types.MetaLinkCreation) - ref
		if delta < 0 {
			delta = -delta
		}
		for _, w := range c.windows {
			if delta <= w.halfWidth {
				candidate.Improve(w.quality, TypeTimeProximity, true)
				break
			}
		}
	}
}

func hasLinkMeta(r *types.RelatedResource) bool {
	return r.HasMeta(types.MetaLinkCreation) &&
		r.HasMeta(types.MetaLinkCreator) &&
		r.HasMeta(types.MetaLinkRecipient)
}
