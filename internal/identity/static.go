// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/related-engine/pkg/types"
)

// directoryFile is the YAML shape of a static identity directory.
type directoryFile struct {
	Users []struct {
		ID          string `yaml:"id"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"users"`
	Groups []struct {
		ID          string   `yaml:"id"`
		DisplayName string   `yaml:"display_name"`
		Members     []string `yaml:"members"`
	} `yaml:"groups"`
	Circles []struct {
		ID          string   `yaml:"id"`
		DisplayName string   `yaml:"display_name"`
		Members     []string `yaml:"members"`
	} `yaml:"circles"`
}

// StaticResolver resolves entities from a YAML directory file. It
// stands in for the external federation subsystem when the engine
// runs standalone.
type StaticResolver struct {
	mu       sync.RWMutex
	path     string
	entities map[string]types.Entity
	members  map[string]map[string]struct{} // group/circle id → member set
}

// NewStaticResolver loads the directory file at path.
func NewStaticResolver(path string) (*StaticResolver, error) {
	r := &StaticResolver{path: path}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewStaticResolverFromEntities builds a resolver without a backing
// file, for tests and embedding.
func NewStaticResolverFromEntities(entities []types.Entity, members map[string][]string) *StaticResolver {
	r := &StaticResolver{
		entities: map[string]types.Entity{},
		members:  map[string]map[string]struct{}{},
	}
	for _, e := range entities {
		r.entities[e.ID] = e
	}
	for group, ids := range members {
		set := map[string]struct{}{}
		for _, id := range ids {
			set[id] = struct{}{}
		}
		r.members[group] = set
	}
	return r
}

func (r *StaticResolver) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("reading identity directory: %w", err)
	}

	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing identity directory: %w", err)
	}

	entities := map[string]types.Entity{}
	members := map[string]map[string]struct{}{}

	for _, u := range file.Users {
		entities[u.ID] = types.Entity{ID: u.ID, Type: types.EntityUser, DisplayName: u.DisplayName}
	}
	for _, g := range file.Groups {
		entities[g.ID] = types.Entity{ID: g.ID, Type: types.EntityGroup, DisplayName: g.DisplayName}
		set := map[string]struct{}{}
		for _, m := range g.Members {
			set[m] = struct{}{}
		}
		members[g.ID] = set
	}
	for _, c := range file.Circles {
		entities[c.ID] = types.Entity{ID: c.ID, Type: types.EntityCircle, DisplayName: c.DisplayName}
		set := map[string]struct{}{}
		for _, m := range c.Members {
			set[m] = struct{}{}
		}
		members[c.ID] = set
	}

	r.mu.Lock()
	r.entities = entities
	r.members = members
	r.mu.Unlock()
	return nil
}

func (r *StaticResolver) Resolve(_ context.Context, identifier string, hint types.EntityType) (types.Entity, error) {
	r.mu.RLock()
	entity, ok := r.entities[identifier]
	r.mu.RUnlock()

	if !ok {
		return types.Entity{}, fmt.Errorf("unknown entity %q", identifier)
	}
	if hint != "" && entity.Type != hint {
		return types.Entity{}, fmt.Errorf("entity %q is a %s, not a %s", identifier, entity.Type, hint)
	}
	return entity, nil
}

func (r *StaticResolver) IsMember(_ context.Context, groupID, entityID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.members[groupID]
	if !ok {
		return false, fmt.Errorf("unknown group or circle %q", groupID)
	}
	_, member := set[entityID]
	return member, nil
}

// Reconnect reloads the directory file, the closest a static resolver
// comes to a session restart.
func (r *StaticResolver) Reconnect(_ context.Context) error {
	if r.path == "" {
		return nil
	}
	return r.load()
}
