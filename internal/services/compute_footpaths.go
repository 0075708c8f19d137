package services

import (
	"context"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/ports"
	"iter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ComputeFootpathsRequest struct {
	// Upper bound on destinations per table request.
	MaxDestinations int
	// Concurrent table requests. 1 (or less) runs batches strictly in plan
	// order, which makes the artifact byte-for-byte reproducible.
	Workers int
}

// RunStats is the aggregate outcome of one pipeline run.
type RunStats struct {
	Stops          int
	PlannedPairs   int
	PlannedBatches int
	Requests       int
	FailedRequests int
	FailedWrites   int
	PairsWritten   int
	NoRoutePairs   int
	Elapsed        time.Duration
}

func (s RunStats) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("stops", s.Stops),
		zap.Int("planned_pairs", s.PlannedPairs),
		zap.Int("planned_batches", s.PlannedBatches),
		zap.Int("requests", s.Requests),
		zap.Int("failed_requests", s.FailedRequests),
		zap.Int("failed_writes", s.FailedWrites),
		zap.Int("pairs_written", s.PairsWritten),
		zap.Int("no_route_pairs", s.NoRoutePairs),
		zap.Duration("elapsed", s.Elapsed),
	}
}

type batchResult struct {
	batch     domain.Batch
	durations []domain.Duration
	err       error
}

// ComputeFootpaths queries walking durations for every unordered stop pair
// and writes one record per pair to sink.
//
// A batch whose request fails is logged, counted and skipped; it contributes
// no records and the run continues. The same holds for a sink write that
// fails with domain.ErrTransport (an unreachable pair store). Any other sink
// failure or context cancellation ends the run early, and stats are returned
// either way.
func ComputeFootpaths(
	ctx context.Context,
	req ComputeFootpathsRequest,
	stops []domain.Stop,
	provider ports.DurationMatrixProvider,
	sink ports.RecordSink,
	log *zap.Logger,
) (RunStats, error) {
	start := time.Now()

	stats := RunStats{
		Stops:          len(stops),
		PlannedPairs:   CountPairs(len(stops)),
		PlannedBatches: CountBatches(len(stops), req.MaxDestinations),
	}

	batches, err := PlanBatches(len(stops), req.MaxDestinations)
	if err != nil {
		return stats, fmt.Errorf("compute footpaths: %w", err)
	}

	log.Info("computing footpaths",
		zap.Int("stops", stats.Stops),
		zap.Int("planned_pairs", stats.PlannedPairs),
		zap.Int("planned_batches", stats.PlannedBatches),
		zap.Int("max_destinations", req.MaxDestinations),
		zap.Int("workers", max(req.Workers, 1)),
	)

	p := &pipeline{stops: stops, sink: sink, log: log, stats: &stats}

	if req.Workers <= 1 {
		for b := range batches {
			if err := ctx.Err(); err != nil {
				stats.Elapsed = time.Since(start)
				return stats, fmt.Errorf("compute footpaths: %w", err)
			}

			durations, err := provider.Durations(ctx, stops, b)
			if err := p.record(ctx, batchResult{batch: b, durations: durations, err: err}); err != nil {
				stats.Elapsed = time.Since(start)
				return stats, err
			}
		}

		stats.Elapsed = time.Since(start)
		return stats, nil
	}

	err = p.runParallel(ctx, req.Workers, batches, provider)
	stats.Elapsed = time.Since(start)
	return stats, err
}

type pipeline struct {
	stops []domain.Stop
	sink  ports.RecordSink
	log   *zap.Logger
	stats *RunStats
}

// runParallel keeps at most workers table requests in flight. Results are
// handed to this goroutine, the only one that touches the sink and stats,
// and each batch is written as one block when it completes.
func (p *pipeline) runParallel(
	ctx context.Context,
	workers int,
	batches iter.Seq[domain.Batch],
	provider ports.DurationMatrixProvider,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan batchResult, workers)
	var waitErr error

	go func() {
		defer close(results)

		for b := range batches {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				durations, err := provider.Durations(gctx, p.stops, b)
				select {
				case results <- batchResult{batch: b, durations: durations, err: err}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}

		waitErr = g.Wait()
	}()

	var sinkErr error
	for res := range results {
		if sinkErr != nil {
			continue
		}
		if err := p.record(ctx, res); err != nil {
			sinkErr = err
			cancel()
		}
	}

	if sinkErr != nil {
		return sinkErr
	}
	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return fmt.Errorf("compute footpaths: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("compute footpaths: %w", err)
	}
	return nil
}

// record turns one batch result into pair records and writes them.
func (p *pipeline) record(ctx context.Context, res batchResult) error {
	b := res.batch
	source := p.stops[b.Source]

	if res.err != nil {
		p.stats.FailedRequests++
		p.log.Warn("batch failed",
			zap.Stringer("batch", b),
			zap.String("source_stop", source.StopID),
			zap.Error(res.err),
		)
		return nil
	}

	if len(res.durations) != b.Size() {
		p.stats.FailedRequests++
		p.log.Warn("batch failed",
			zap.Stringer("batch", b),
			zap.String("source_stop", source.StopID),
			zap.Error(fmt.Errorf("%w: got %d durations for %d destinations", domain.ErrPayload, len(res.durations), b.Size())),
		)
		return nil
	}

	records := make([]domain.PairRecord, 0, b.Size())
	noRoute := 0
	for i, d := range res.durations {
		dest := p.stops[b.DestStart+i]
		if !d.Routed() {
			noRoute++
			p.log.Debug("no route found",
				zap.String("from", source.StopID),
				zap.String("to", dest.StopID),
			)
		}
		records = append(records, domain.PairRecord{
			StopA:    source.StopID,
			StopB:    dest.StopID,
			Duration: d,
		})
	}

	if err := p.sink.WriteBatch(ctx, records); err != nil {
		if !errors.Is(err, domain.ErrTransport) || ctx.Err() != nil {
			return fmt.Errorf("compute footpaths: batch %s: %w", b, err)
		}
		p.stats.FailedWrites++
		p.log.Warn("batch write failed",
			zap.Stringer("batch", b),
			zap.String("source_stop", source.StopID),
			zap.Error(err),
		)
		return nil
	}

	p.stats.Requests++
	p.stats.PairsWritten += len(records)
	p.stats.NoRoutePairs += noRoute

	p.log.Info("completed request",
		zap.Int("request", p.stats.Requests),
		zap.Stringer("batch", b),
		zap.String("source_stop", source.StopID),
		zap.Int("pairs", len(records)),
		zap.Int("no_route", noRoute),
	)

	return nil
}
