// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weight

import (
	"github.com/pdiddy/related-engine/pkg/types"
)

// minKeywordLength excludes short tokens ("the", "of", file suffixes)
// from overlap matching.
const minKeywordLength = 3

// KeywordCalculator boosts candidates sharing display-name keywords
// with the seed. Each shared keyword longer than minKeywordLength
// applies a high boost; multiple shared keywords compound, subject to
// the resource's per-type diminishing returns.
type KeywordCalculator struct{}

func NewKeywordCalculator() *KeywordCalculator { return &KeywordCalculator{} }

func (c *KeywordCalculator) ID() string { return "keyword" }

func (c *KeywordCalculator) Weight(current *types.RelatedResource, candidates []*types.RelatedResource) {
	seed := current.MetaList(types.MetaKeywords)
	if len(seed) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(seed))
	for _, kw := range seed {
		if len(kw) > minKeywordLength {
			seen[kw] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return
	}

	for _, candidate := range candidates {
		for _, kw := range candidate.MetaList(types.MetaKeywords) {
			if _, ok := seen[kw]; ok {
				candidate.Improve(QualityHigh, TypeKeywordOverlap, true)
			}
		}
	}
}
