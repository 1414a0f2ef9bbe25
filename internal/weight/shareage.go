// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weight

import (
	"time"

	"github.com/pdiddy/related-engine/pkg/types"
)

const (
	day  = int64(24 * 60 * 60)
	year = 365 * day

	// neutralWindow is the span, in seconds, within which two share
	// creation times are considered coincident for the proximity ramp.
	neutralWindow = 90 * day
)

// agePenalty pairs a minimum absolute link age with the penalty
// applied past it. Checked oldest-first.
type agePenalty struct {
	minAge  int64
	quality float64
}

// ShareAgeCalculator penalizes stale sharing links and nudges scores
// by how close in time the seed's and candidate's links were created.
// The two effects are independent: an absolute-age penalty against
// now, and a linear proximity ramp between the two creation times.
type ShareAgeCalculator struct {
	// now is injectable for tests.
	now func() time.Time

	penalties []agePenalty
}

func NewShareAgeCalculator() *ShareAgeCalculator {
	return &ShareAgeCalculator{
		now: time.Now,
		penalties: []agePenalty{
			{minAge: 5 * year, quality: 0.4},
			{minAge: 3 * year, quality: 0.7},
			{minAge: 1 * year, quality: 0.85},
		},
	}
}

func (c *ShareAgeCalculator) ID() string { return "share_age" }

func (c *ShareAgeCalculator) Weight(current *types.RelatedResource, candidates []*types.RelatedResource) {
	now := c.now().Unix()
	ref := int64(0)
	if current.HasMeta(types.MetaLinkCreation) {
		ref = current.MetaInt(types.MetaLinkCreation)
	}

	for _, candidate := range candidates {
		if !candidate.HasMeta(types.MetaLinkCreation) {
			continue
		}
		created := candidate.MetaInt(types.MetaLinkCreation)

		age := now - created
		for _, p := range c.penalties {
			if age >= p.minAge {
				candidate.Improve(p.quality, TypeShareAge, true)
				break
			}
		}

		if ref == 0 {
			continue
		}
		delta := created - ref
		if delta < 0 {
			delta = -delta
		}
		// Linear ramp: 1.2 for coincident links, decaying to a floor
		// of 0.75 outside the neutral window.
		impr := 1 - float64(delta-neutralWindow)*0.2/float64(neutralWindow)
		if impr < 0.75 {
			impr = 0.75
		}
		candidate.Improve(impr, TypeShareProximity, true)
	}
}
