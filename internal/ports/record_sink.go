package ports

import (
	"context"
	"footpath-matrix-service/internal/domain"
)

// Durable destination for the pair records of a run.
type RecordSink interface {
	// Persist every record of one batch, or none of them.
	WriteBatch(ctx context.Context, records []domain.PairRecord) error
	// Flush and release the sink. Safe to call on every exit path.
	Close() error
}
