package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-meds/internal/adapters/storage/jsonfile"
	"pet-meds/internal/adapters/storage/memory"
	"pet-meds/internal/adapters/storage/postgres"
	"pet-meds/internal/adapters/storage/redis"
	"pet-meds/internal/adapters/storage/sqlite"
	"pet-meds/internal/ports/kv"
)

const (
	EngineSQLite   = "sqlite"
	EngineJSON     = "json"
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

type Options struct {
	Engine   string
	Path     string // sqlite / json
	DSN      string // postgres
	RedisURL string // redis
}

// Open construye el sustrato kv según el engine configurado.
func Open(ctx context.Context, opts Options) (kv.Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", EngineSQLite:
		return sqlite.Open(opts.Path)
	case EngineJSON:
		return jsonfile.Open(opts.Path)
	case EngineMemory:
		return memory.NewKV(), nil
	case EnginePostgres:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, errors.New("postgres engine requires DB_DSN")
		}
		db, err := postgres.Open(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return postgres.NewKV(ctx, db)
	case EngineRedis:
		if strings.TrimSpace(opts.RedisURL) == "" {
			return nil, errors.New("redis engine requires REDIS_URL")
		}
		return redis.Open(ctx, opts.RedisURL)
	default:
		return nil, errors.New("unsupported store engine: " + opts.Engine)
	}
}
