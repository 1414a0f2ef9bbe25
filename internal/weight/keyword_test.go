// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weight

import (
	"math"
	"testing"

	"github.com/pdiddy/related-engine/pkg/types"
)

func keywordResource(itemID string, keywords ...string) *types.RelatedResource {
	r := types.NewRelatedResource("local", itemID)
	r.SetMeta(types.MetaKeywords, types.MetaList(keywords...))
	return r
}

func TestKeywordCalculatorSharedKeywordBoosts(t *testing.T) {
	current := keywordResource("seed", "budget", "report")
	candidate := keywordResource("cand", "budget", "meeting")

	NewKeywordCalculator().Weight(current, []*types.RelatedResource{candidate})

	if math.Abs(candidate.Score-QualityHigh) > 1e-9 {
		t.Errorf("score = %f, want %f", candidate.Score, QualityHigh)
	}
}

func TestKeywordCalculatorMultipleMatchesCompoundWithDiminishing(t *testing.T) {
	current := keywordResource("seed", "budget", "report")
	candidate := keywordResource("cand", "budget", "report")

	NewKeywordCalculator().Weight(current, []*types.RelatedResource{candidate})

	// Second shared keyword applies the diminished 1.48, not a fresh 1.8.
	want := 1.8 * 1.48
	if math.Abs(candidate.Score-want) > 1e-9 {
		t.Errorf("score = %f, want %f", candidate.Score, want)
	}
}

func TestKeywordCalculatorIgnoresShortKeywords(t *testing.T) {
	tests := []struct {
		name    string
		seed    []string
		cand    []string
		wantHit bool
	}{
		{"three letters too short", []string{"the"}, []string{"the"}, false},
		{"four letters match", []string{"plan"}, []string{"plan"}, true},
		{"no overlap", []string{"budget"}, []string{"invoice"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := keywordResource("seed", tt.seed...)
			candidate := keywordResource("cand", tt.cand...)

			NewKeywordCalculator().Weight(current, []*types.RelatedResource{candidate})

			boosted := candidate.Score > 1.0
			if boosted != tt.wantHit {
				t.Errorf("boosted = %v, want %v (score %f)", boosted, tt.wantHit, candidate.Score)
			}
		})
	}
}

func TestKeywordCalculatorNoSeedKeywords(t *testing.T) {
	current := types.NewRelatedResource("local", "seed")
	candidate := keywordResource("cand", "budget")

	NewKeywordCalculator().Weight(current, []*types.RelatedResource{candidate})

	if candidate.Score != 1.0 {
		t.Errorf("score = %f, want unchanged 1.0", candidate.Score)
	}
}
