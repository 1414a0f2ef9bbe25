// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shares is the bundled reference provider: share records in
// a local SQLite database, exposed to the engine through the provider
// contract. It exists so the CLI and HTTP front-ends work end to end
// without any external application, and doubles as the template for
// writing real per-application providers.
package shares

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Share is one sharing record: itemID was granted to entityID.
type Share struct {
	// ItemID is the provider-local item identifier.
	ItemID string `json:"item_id" yaml:"item_id"`

	// Title is the item display name shown in results.
	Title string `json:"title" yaml:"title"`

	// URL is an optional deep link to the item.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// EntityID is the grantee (user, group, or circle identifier).
	EntityID string `json:"entity_id" yaml:"entity_id"`

	// EntityType is "user", "group", or "circle".
	EntityType string `json:"entity_type" yaml:"entity_type"`

	// Creator is the entity that created the share.
	Creator string `json:"creator" yaml:"creator"`

	// Created is the share creation time as a unix timestamp.
	Created int64 `json:"created" yaml:"created"`
}

// Flusher receives share change notifications. The cache facade
// satisfies it; every mutation flushes the whole cache namespace.
type Flusher interface {
	OnShareCreated(ctx context.Context)
	OnShareDeleted(ctx context.Context)
}

// Store persists share records in SQLite.
type Store struct {
	db      *sql.DB
	flusher Flusher
}

// NewStore opens or creates the share database at path and ensures
// the schema exists.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening share database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// SetFlusher registers the cache invalidation hook.
func (s *Store) SetFlusher(f Flusher) { s.flusher = f }

// Close releases the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS shares (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT,
			entity_id TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			creator TEXT NOT NULL,
			created INTEGER NOT NULL,
			UNIQUE(item_id, entity_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shares_item ON shares(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shares_entity ON shares(entity_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AddShare inserts or replaces a share record and fires the cache
// flush hook.
func (s *Store) AddShare(ctx context.Context, share Share) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shares (item_id, title, url, entity_id, entity_type, creator, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(item_id, entity_id) DO UPDATE SET
		   title = excluded.title, url = excluded.url,
		   entity_type = excluded.entity_type,
		   creator = excluded.creator, created = excluded.created`,
		share.ItemID, share.Title, share.URL, share.EntityID,
		share.EntityType, share.Creator, share.Created)
	if err != nil {
		return fmt.Errorf("inserting share: %w", err)
	}

	if s.flusher != nil {
		s.flusher.OnShareCreated(ctx)
	}
	return nil
}

// RemoveShare deletes the share of itemID to entityID and fires the
// cache flush hook. Removing a nonexistent share is not an error.
func (s *Store) RemoveShare(ctx context.Context, itemID, entityID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM shares WHERE item_id = ? AND entity_id = ?`, itemID, entityID)
	if err != nil {
		return fmt.Errorf("deleting share: %w", err)
	}

	if s.flusher != nil {
		s.flusher.OnShareDeleted(ctx)
	}
	return nil
}

// SharesForItem returns every share record of itemID, oldest first.
func (s *Store) SharesForItem(ctx context.Context, itemID string) ([]Share, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, title, url, entity_id, entity_type, creator, created
		 FROM shares WHERE item_id = ? ORDER BY created, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying shares for item: %w", err)
	}
	defer rows.Close()

	var shares []Share
	for rows.Next() {
		var (
			sh  Share
			url sql.NullString
		)
		if err := rows.Scan(&sh.ItemID, &sh.Title, &url, &sh.EntityID,
			&sh.EntityType, &sh.Creator, &sh.Created); err != nil {
			return nil, fmt.Errorf("scanning share row: %w", err)
		}
		sh.URL = url.String
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

// ItemsForEntity returns the distinct item ids shared with entityID.
func (s *Store) ItemsForEntity(ctx context.Context, entityID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT item_id FROM shares WHERE entity_id = ? ORDER BY item_id`, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying items for entity: %w", err)
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item id: %w", err)
		}
		items = append(items, id)
	}
	return items, rows.Err()
}
