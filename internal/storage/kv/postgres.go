package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// postgresStore хранит коллекции в таблице kv_collections (см. migrations)
type postgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (p *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	row := p.db.QueryRowContext(ctx, "SELECT body FROM kv_collections WHERE name = $1", key)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", key, err)
	}
	return body, nil
}

func (p *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_collections (name, body, updated_at)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`
	if _, err := p.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM kv_collections WHERE name = $1", key); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Close() error {
	return p.db.Close()
}
