package factory

import (
	"context"
	"fmt"

	"turkgpt/pkg/database"
	"turkgpt/pkg/store"
	"turkgpt/pkg/store/gormstore"
	"turkgpt/pkg/store/memstore"
	"turkgpt/pkg/store/redisstore"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm/logger"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Backend string
	// DSN is the postgres connection string or the redis URL.
	DSN      string
	Name     string
	LogLevel logger.LogLevel
}

func NewStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Backend {
	case BackendPostgres, "":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a connection string")
		}
		db, err := database.NewPostgres(database.Config{DSN: cfg.DSN, Name: cfg.Name, LogLevel: cfg.LogLevel})
		if err != nil {
			return nil, err
		}
		return gormstore.New(db)

	case BackendSQLite:
		name := cfg.Name
		if name == "" {
			name = "turkgpt"
		}
		db, err := database.NewSQLite(database.Config{DSN: name + ".db", LogLevel: cfg.LogLevel})
		if err != nil {
			return nil, err
		}
		return gormstore.New(db)

	case BackendRedis:
		opt, err := redis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return redisstore.New(rdb, cfg.Name), nil

	case BackendMemory:
		return memstore.New(), nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
