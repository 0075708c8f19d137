package ports

import (
	"context"
	"footpath-matrix-service/internal/domain"
)

// Key-value storage addressed by canonical pair keys (domain.PairKey).
type PairStore interface {
	// Store one value; later writes to the same key win.
	Put(ctx context.Context, key string, d domain.Duration) error
	// Store many values atomically.
	PutBatch(ctx context.Context, records []domain.PairRecord) error
	// Point read; returns domain.ErrNotFound for unknown keys.
	Get(ctx context.Context, key string) (domain.Duration, error)
	// Verify the store is reachable.
	Ping(ctx context.Context) error
}
