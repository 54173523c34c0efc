package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spendlog/spendlog-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and expenses.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects a pool, applies pending migrations, and returns the store.
func New(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(databaseURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{pool: pool, logger: logger}, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
