// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// sqliteStore backs the database provider with an in-memory SQLite
// database. Items are serialized as JSON; rowid preserves insertion order.
type sqliteStore struct {
	db *sql.DB
}

func newSQLiteStore() (*sqliteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// A single connection so every statement sees the same :memory: db.
	db.SetMaxOpenConns(1)

	s := &sqliteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *sqliteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_id ON items(id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *sqliteStore) Put(ctx context.Context, item types.KnowledgeItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding item %s: %w", item.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data=excluded.data`,
		item.ID, string(data),
	)
	if err != nil {
		return fmt.Errorf("storing item %s: %w", item.ID, err)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (types.KnowledgeItem, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM items WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return types.KnowledgeItem{}, false, nil
	}
	if err != nil {
		return types.KnowledgeItem{}, false, fmt.Errorf("loading item %s: %w", id, err)
	}

	var item types.KnowledgeItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return types.KnowledgeItem{}, false, fmt.Errorf("decoding item %s: %w", id, err)
	}
	return item, true, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return nil
}

func (s *sqliteStore) All(ctx context.Context) ([]types.KnowledgeItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM items ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var out []types.KnowledgeItem
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var item types.KnowledgeItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("decoding item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
