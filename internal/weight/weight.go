// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package weight scores related-resource candidates against the seed
// item through a pipeline of independent, stateless calculators. Each
// calculator inspects the (seed, candidate) pair and multiplicatively
// adjusts the candidate's score; none reorders or removes candidates.
package weight

import (
	"strings"

	"github.com/pdiddy/related-engine/pkg/types"
)

// Score multipliers shared by the built-in calculators.
const (
	QualityHigh   = 1.8
	QualityMedium = 1.3
	QualityLow    = 1.1
)

// Improvement type identifiers, recorded in the audit log.
const (
	TypeTimeProximity  = "time_proximity"
	TypeKeywordOverlap = "keyword_overlap"
	TypeShareAge       = "share_age"
	TypeShareProximity = "share_proximity"
)

// Calculator adjusts candidate scores in place. Implementations must
// be stateless; the same instance is reused across requests.
type Calculator interface {
	// ID identifies the calculator in logs.
	ID() string

	// Weight mutates candidate scores against the seed. It must not
	// reorder or remove candidates.
	Weight(current *types.RelatedResource, candidates []*types.RelatedResource)
}

// Pipeline runs calculators in registration order, exactly once per
// ranking request, over the full candidate list.
type Pipeline struct {
	calculators []Calculator
}

// NewPipeline builds a pipeline from the built-in calculators followed
// by any provider-registered extras, preserving order.
func NewPipeline(extras ...Calculator) *Pipeline {
	return &Pipeline{calculators: append(Builtins(), extras...)}
}

// Builtins returns the three reference calculators.
func Builtins() []Calculator {
	return []Calculator{
		NewTimeCalculator(),
		NewKeywordCalculator(),
		NewShareAgeCalculator(),
	}
}

// Run applies every calculator to the candidate list.
func (p *Pipeline) Run(current *types.RelatedResource, candidates []*types.RelatedResource) {
	for _, c := range p.calculators {
		c.Weight(current, candidates)
	}
}

// Keywords tokenizes a display name into lowercase keywords, splitting
// on slash, underscore, dash, dot, and space. Providers call this at
// conversion time and stash the result in the meta bag for the keyword
// calculator.
func Keywords(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		switch r {
		case '/', '_', '-', '.', ' ':
			return true
		}
		return false
	})
	return fields
}
