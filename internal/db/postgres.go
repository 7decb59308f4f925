package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDB stores preferences in PostgreSQL
type PostgresDB struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a connection pool and checks connectivity
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the pool
func (p *PostgresDB) Close() error {
	p.pool.Close()
	return nil
}

// Ping checks connectivity
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// EnsureSchema creates tables if they don't exist
func (p *PostgresDB) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get returns a client's preference value
func (p *PostgresDB) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		"SELECT value FROM preferences WHERE client_id = $1 AND key = $2",
		clientID, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query preference: %w", err)
	}
	return value, true, nil
}

// Set inserts or updates a client's preference value
func (p *PostgresDB) Set(ctx context.Context, clientID, key, value string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO preferences (client_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`,
		clientID, key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}
	return nil
}

// DeleteStale removes preferences not updated since before
func (p *PostgresDB) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		"DELETE FROM preferences WHERE updated_at < $1",
		before.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale preferences: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Open picks PostgreSQL when databaseURL is set and SQLite at sqlitePath
// otherwise, and makes sure the schema exists
func Open(ctx context.Context, databaseURL, sqlitePath string) (PreferenceStore, error) {
	if databaseURL != "" {
		store, err := ConnectPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}

	store, err := Connect(sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
