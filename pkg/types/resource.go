// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the related-engine
// ranking pipeline. See docs/ARCHITECTURE § Data Structures.
package types

// diminishFactor controls how fast repeated improvements of the same
// type decay toward the neutral multiplier 1.0.
const diminishFactor = 0.6

// Improvement is one entry of a resource's score audit log: which
// calculator type touched the score and the quality actually applied.
type Improvement struct {
	Type    string  `json:"type" yaml:"type"`
	Quality float64 `json:"quality" yaml:"quality"`
}

// RelatedResource is one related-resource candidate. It is owned by a
// single ranking request: constructed by a provider (or deserialized
// from the cache), mutated during filtering and weighting, then
// discarded once the response is written.
type RelatedResource struct {
	// ProviderID is the namespace of the owning provider. Immutable
	// after construction.
	ProviderID string `json:"providerId" yaml:"providerId"`

	// ItemID is the provider-local identifier. Immutable.
	ItemID string `json:"itemId" yaml:"itemId"`

	// Display fields are opaque to the engine.
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	Tooltip  string `json:"tooltip" yaml:"tooltip"`
	Icon     string `json:"icon" yaml:"icon"`
	URL      string `json:"url" yaml:"url"`

	// VirtualGroup lists the individual users the resource was shared
	// with one-to-one. Authoritative when GroupShared is false.
	VirtualGroup []string `json:"virtualGroup" yaml:"virtualGroup"`

	// Recipients lists the group-level grantees (groups, circles).
	// Authoritative when GroupShared is true.
	Recipients []string `json:"recipients" yaml:"recipients"`

	// GroupShared selects which of the two sets above is authoritative
	// for audience comparisons.
	GroupShared bool `json:"groupShared" yaml:"groupShared"`

	// Score is the multiplicative ranking score. It starts at 1.0 and
	// is only changed through Improve.
	Score float64 `json:"score" yaml:"score"`

	// Improvements is the ordered audit log of applied score changes.
	Improvements []Improvement `json:"improvements" yaml:"improvements"`

	// CurrentQuality maps an improvement type to the diminished quality
	// the next improvement of that type will apply.
	CurrentQuality map[string]float64 `json:"currentQuality" yaml:"currentQuality"`

	// Meta is the open signal bag filled by providers and read by
	// weight calculators.
	Meta map[string]MetaValue `json:"meta" yaml:"-"`
}

// NewRelatedResource constructs a candidate with a neutral score.
func NewRelatedResource(providerID, itemID string) *RelatedResource {
	return &RelatedResource{
		ProviderID:     providerID,
		ItemID:         itemID,
		VirtualGroup:   []string{},
		Recipients:     []string{},
		Score:          1.0,
		Improvements:   []Improvement{},
		CurrentQuality: map[string]float64{},
		Meta:           map[string]MetaValue{},
	}
}

// Improve multiplies the score by quality, subject to diminishing
// returns per improvement type: the second application of the same
// type uses the previously diminished quality instead of the fresh
// one, so repeated applications converge toward 1.0 rather than
// compounding. When diminishing is false the stored quality does not
// decay between applications.
func (r *RelatedResource) Improve(quality float64, improvementType string, diminishing bool) {
	applied := quality
	if prev, ok := r.CurrentQuality[improvementType]; ok {
		applied = prev
	}

	r.Score *= applied
	r.Improvements = append(r.Improvements, Improvement{Type: improvementType, Quality: applied})

	if r.CurrentQuality == nil {
		r.CurrentQuality = map[string]float64{}
	}
	if diminishing {
		r.CurrentQuality[improvementType] = 1 + (applied-1)*diminishFactor
	} else {
		r.CurrentQuality[improvementType] = applied
	}
}

// AddToVirtualGroup records an individual grantee, ignoring duplicates.
func (r *RelatedResource) AddToVirtualGroup(entityID string) {
	if !contains(r.VirtualGroup, entityID) {
		r.VirtualGroup = append(r.VirtualGroup, entityID)
	}
}

// AddRecipient records a group-level grantee, ignoring duplicates.
func (r *RelatedResource) AddRecipient(entityID string) {
	if !contains(r.Recipients, entityID) {
		r.Recipients = append(r.Recipients, entityID)
	}
}

// Audience returns the authoritative recipient set selected by the
// GroupShared flag.
func (r *RelatedResource) Audience() []string {
	if r.GroupShared {
		return r.Recipients
	}
	return r.VirtualGroup
}

// Reaches reports whether entityID appears in either recipient set.
func (r *RelatedResource) Reaches(entityID string) bool {
	return contains(r.Recipients, entityID) || contains(r.VirtualGroup, entityID)
}

// SetMeta stores a signal value under key.
func (r *RelatedResource) SetMeta(key string, value MetaValue) {
	if r.Meta == nil {
		r.Meta = map[string]MetaValue{}
	}
	r.Meta[key] = value
}

// HasMeta reports whether key is present in the signal bag.
func (r *RelatedResource) HasMeta(key string) bool {
	_, ok := r.Meta[key]
	return ok
}

// MetaString returns the string signal under key, or "".
func (r *RelatedResource) MetaString(key string) string { return r.Meta[key].String() }

// MetaInt returns the integer signal under key, or 0.
func (r *RelatedResource) MetaInt(key string) int64 { return r.Meta[key].Int() }

// MetaList returns the string-list signal under key, or nil.
func (r *RelatedResource) MetaList(key string) []string { return r.Meta[key].List() }

// PublicResource is the API response shape: internal bookkeeping
// (recipient sets, quality map, meta bag) is stripped.
type PublicResource struct {
	ProviderID   string        `json:"providerId" yaml:"providerId"`
	ItemID       string        `json:"itemId" yaml:"itemId"`
	Title        string        `json:"title" yaml:"title"`
	Subtitle     string        `json:"subtitle" yaml:"subtitle"`
	Tooltip      string        `json:"tooltip" yaml:"tooltip"`
	URL          string        `json:"url" yaml:"url"`
	Icon         string        `json:"icon" yaml:"icon"`
	Score        float64       `json:"score" yaml:"score"`
	Improvements []Improvement `json:"improvements" yaml:"improvements"`
}

// Public returns the externally visible view of the resource.
func (r *RelatedResource) Public() PublicResource {
	return PublicResource{
		ProviderID:   r.ProviderID,
		ItemID:       r.ItemID,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Tooltip:      r.Tooltip,
		URL:          r.URL,
		Icon:         r.Icon,
		Score:        r.Score,
		Improvements: r.Improvements,
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
