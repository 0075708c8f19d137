package cache

import (
	"context"
	"fmt"
	"footpath-matrix-service/internal/config"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/platform/db"
	"footpath-matrix-service/internal/ports"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open builds the pair store selected by cfg.Backend and verifies it is
// reachable. The returned close func releases the underlying connection.
// Failures wrap domain.ErrResourceUnavailable.
func Open(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) (ports.PairStore, func() error, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := NewRedisPairStore(client, log)
		if err := store.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("open pair store: %w", err)
		}
		return store, client.Close, nil

	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open pair store: %w: %w", domain.ErrResourceUnavailable, err)
		}
		if err := InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open pair store: %w: %w", domain.ErrResourceUnavailable, err)
		}
		return NewSQLPairStore(conn, log), conn.Close, nil

	case "sqlite":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("open pair store: %w: %w", domain.ErrResourceUnavailable, err)
			}
		}
		conn, err := db.OpenSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open pair store: %w: %w", domain.ErrResourceUnavailable, err)
		}
		if err := InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open pair store: %w: %w", domain.ErrResourceUnavailable, err)
		}
		return NewSqlitePairStore(conn), conn.Close, nil
	}

	return nil, nil, fmt.Errorf("open pair store: unknown backend %q", cfg.Backend)
}
