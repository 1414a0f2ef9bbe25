// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package related

import (
	"context"

	"github.com/pdiddy/related-engine/pkg/types"
)

// isStrictMatch reports whether two resources are shared with exactly
// the same audience: the groupShared flags agree and the authoritative
// recipient sets are equal as unordered sets. A group-shared resource
// is never compared against an individually-shared one.
func isStrictMatch(a, b *types.RelatedResource) bool {
	if a.GroupShared != b.GroupShared {
		return false
	}
	return setEqual(a.Audience(), b.Audience())
}

// setEqual compares two identifier lists as unordered sets, tolerating
// duplicates within either list.
func setEqual(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}

// filterStrictMatches keeps candidates shared with precisely the
// seed's audience.
func filterStrictMatches(current *types.RelatedResource, candidates []*types.RelatedResource) []*types.RelatedResource {
	var kept []*types.RelatedResource
	for _, c := range candidates {
		if isStrictMatch(current, c) {
			kept = append(kept, c)
		}
	}
	return kept
}

// visibleTo reports whether the principal can see the candidate:
// either the principal appears in the combined recipient sets, or it
// is transitively a member of one of the candidate's group recipients.
func (s *Service) visibleTo(ctx context.Context, candidate *types.RelatedResource, principal types.Entity) bool {
	if candidate.Reaches(principal.ID) {
		return true
	}
	for _, groupID := range candidate.Recipients {
		member, err := s.resolver.IsMember(ctx, groupID, principal.ID)
		if err != nil {
			s.log.Debug().Err(err).
				Str("group", groupID).
				Str("principal", principal.ID).
				Msg("membership check failed, treating as non-member")
			continue
		}
		if member {
			return true
		}
	}
	return false
}
