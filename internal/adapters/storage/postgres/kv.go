package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"pet-meds/internal/ports/kv"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_state (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// KV implementa kv.Store sobre una tabla kv_state en Postgres.
type KV struct {
	db *sql.DB
}

var _ kv.Store = (*KV)(nil)

// NewKV crea la tabla si no existe.
func NewKV(ctx context.Context, db *sql.DB) (*KV, error) {
	if db == nil {
		return nil, errors.New("postgres: nil db")
	}
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("postgres: create kv_state: %w", err)
	}
	return &KV{db: db}, nil
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("postgres: empty key")
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_state WHERE key = $1`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (s *KV) SetMany(ctx context.Context, entries map[string][]byte) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	// orden fijo para que dos transacciones no se bloqueen en orden inverso
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv_state (key, payload, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE
			SET payload = EXCLUDED.payload, updated_at = now()
		`, k, entries[k]); err != nil {
			return fmt.Errorf("postgres: upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *KV) Close() error { return s.db.Close() }
