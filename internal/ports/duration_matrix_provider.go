package ports

import (
	"context"
	"footpath-matrix-service/internal/domain"
)

// Contract for one-to-many walking duration lookups.
type DurationMatrixProvider interface {
	// Return one duration per destination of batch, aligned so that position i
	// is the stop at stops[batch.DestStart+i]. Missing routes are domain.NoRoute.
	Durations(ctx context.Context, stops []domain.Stop, batch domain.Batch) ([]domain.Duration, error)
}
