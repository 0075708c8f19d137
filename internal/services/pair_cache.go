package services

import (
	"context"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/ports"
	"iter"

	"go.uber.org/zap"
)

const defaultProgressEvery = 100000

// PairCache addresses a PairStore by unordered stop pair.
type PairCache struct {
	store ports.PairStore
	log   *zap.Logger
	// Log a progress line every ProgressEvery processed records.
	ProgressEvery int
}

func NewPairCache(store ports.PairStore, log *zap.Logger) *PairCache {
	return &PairCache{store: store, log: log, ProgressEvery: defaultProgressEvery}
}

// LoadStats counts what happened to each record offered to Load.
type LoadStats struct {
	Processed int
	Loaded    int
	Skipped   int
	Failed    int
}

func (s LoadStats) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("processed", s.Processed),
		zap.Int("loaded", s.Loaded),
		zap.Int("skipped", s.Skipped),
		zap.Int("failed", s.Failed),
	}
}

// Load stores every record under its canonical key, one independent write per
// record, so a pair loaded twice keeps the later value.
//
// Elements carrying a domain.ErrInputParse error, and records with an empty
// stop id, are skipped. A failed store write is counted and loading goes on.
// Any other sequence error or a cancelled context stops the load.
func (c *PairCache) Load(ctx context.Context, records iter.Seq2[domain.PairRecord, error]) (LoadStats, error) {
	var stats LoadStats

	for rec, err := range records {
		if ctx.Err() != nil {
			return stats, fmt.Errorf("load pair cache: %w", ctx.Err())
		}

		stats.Processed++
		c.progress(stats)

		if err != nil {
			if !errors.Is(err, domain.ErrInputParse) {
				return stats, fmt.Errorf("load pair cache: %w", err)
			}
			stats.Skipped++
			c.log.Warn("skip record", zap.Error(err))
			continue
		}

		if rec.StopA == "" || rec.StopB == "" {
			stats.Skipped++
			c.log.Warn("skip record", zap.String("stop_a", rec.StopA), zap.String("stop_b", rec.StopB))
			continue
		}

		if err := c.store.Put(ctx, rec.Key(), rec.Duration); err != nil {
			if ctx.Err() != nil {
				return stats, fmt.Errorf("load pair cache: %w", ctx.Err())
			}
			stats.Failed++
			c.log.Warn("store write failed", zap.String("key", rec.Key()), zap.Error(err))
			continue
		}
		stats.Loaded++
	}

	return stats, nil
}

func (c *PairCache) progress(stats LoadStats) {
	if c.ProgressEvery > 0 && stats.Processed%c.ProgressEvery == 0 {
		c.log.Info("load progress", stats.Fields()...)
	}
}

// Lookup returns the cached duration between two stops; argument order does
// not matter. Unknown pairs yield domain.ErrNotFound.
func (c *PairCache) Lookup(ctx context.Context, stopA, stopB string) (domain.Duration, error) {
	if stopA == "" || stopB == "" {
		return 0, fmt.Errorf("lookup: %w: stop ids must be non-empty", domain.ErrInputParse)
	}

	d, err := c.store.Get(ctx, domain.PairKey(stopA, stopB))
	if err != nil {
		return 0, fmt.Errorf("lookup %s/%s: %w", stopA, stopB, err)
	}
	return d, nil
}
