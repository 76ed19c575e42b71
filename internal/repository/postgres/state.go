package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/ShopHub/pkg/database"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

const stateTable = "shopper_state"

const (
	selectStateSQL = `SELECT value FROM shopper_state WHERE key = $1`

	upsertStateSQL = `
		INSERT INTO shopper_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
)

// StateStore implements repository.KeyValueStore using PostgreSQL.
type StateStore struct {
	db database.DBTX
}

// NewStateStore creates a new PostgreSQL-backed key-value store.
func NewStateStore(db database.DBTX) *StateStore {
	return &StateStore{db: db}
}

// Get retrieves the raw JSON value stored under key.
func (s *StateStore) Get(ctx context.Context, key string) (value []byte, err error) {
	ctx, end := database.TraceQuery(ctx, database.Query{Table: stateTable, Operation: "select", Statement: selectStateSQL})
	defer func() { end(err) }()

	if err = s.db.QueryRow(ctx, selectStateSQL, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("state entry", key)
		}
		return nil, fmt.Errorf("select shopper state: %w", err)
	}
	return value, nil
}

// Set upserts value under key.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, database.Query{Table: stateTable, Operation: "upsert", Statement: upsertStateSQL})
	defer func() { end(err) }()

	if _, err = s.db.Exec(ctx, upsertStateSQL, key, value); err != nil {
		return fmt.Errorf("upsert shopper state: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
