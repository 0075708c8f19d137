package cache

import (
	"context"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/ports"
)

// StoreSink lets the pipeline write straight into a pair store instead of a
// CSV artifact. Each batch goes through PutBatch, so it lands atomically.
// The sink does not own the store; Close only stops further writes.
type StoreSink struct {
	store  ports.PairStore
	closed bool
}

func NewStoreSink(store ports.PairStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) WriteBatch(ctx context.Context, records []domain.PairRecord) error {
	if s.closed {
		return errors.New("store sink: closed")
	}
	if err := s.store.PutBatch(ctx, records); err != nil {
		return fmt.Errorf("store sink: %w", err)
	}
	return nil
}

func (s *StoreSink) Close() error {
	s.closed = true
	return nil
}
