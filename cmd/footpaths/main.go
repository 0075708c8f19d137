package main

import (
	"context"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/adapters/artifact"
	"footpath-matrix-service/internal/adapters/cache"
	"footpath-matrix-service/internal/adapters/distance"
	"footpath-matrix-service/internal/adapters/stops"
	"footpath-matrix-service/internal/config"
	"footpath-matrix-service/internal/platform/logger"
	"footpath-matrix-service/internal/ports"
	"footpath-matrix-service/internal/services"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// main is the batch pipeline composition root: stop catalog, OSRM table
// provider and a record sink (CSV artifact or pair store).
func main() {
	os.Exit(start())
}

// start returns the process exit code so deferred cleanup always runs.
func start() int {
	envLoaded := config.LoadEnv()

	log, err := logger.New(config.Get("APP_ENV", "development"), "footpaths")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	if !envLoaded {
		log.Info("no .env file found, using environment variables")
	}

	log = log.With(zap.String("run_id", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("run aborted", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, log *zap.Logger) error {
	pf, err := config.LoadPipelineFile(config.Get("SOURCES_PATH", "sources.yml"))
	if err != nil {
		return err
	}

	maxDest, err := config.GetInt("MAX_DESTINATIONS", pf.MaxDestinations)
	if err != nil {
		return err
	}
	workers, err := config.GetInt("WORKERS", 1)
	if err != nil {
		return err
	}

	osrmCfg, err := config.LoadOSRM()
	if err != nil {
		return err
	}
	provider, err := distance.NewOSRMTableProvider(osrmCfg, log)
	if err != nil {
		return err
	}

	sources := make([]ports.StopSource, 0, len(pf.Sources))
	for _, s := range pf.Sources {
		sources = append(sources, stops.NewGTFSStopSource(s.Agency, s.Path, log))
	}

	catalog, err := services.LoadCatalog(ctx, sources, log)
	if err != nil {
		return err
	}

	sink, err := openSink(ctx, pf.Output, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Error("close sink", zap.Error(err))
		}
	}()

	stats, err := services.ComputeFootpaths(ctx, services.ComputeFootpathsRequest{
		MaxDestinations: maxDest,
		Workers:         workers,
	}, catalog.Stops, provider, sink, log)

	log.Info("run finished", stats.Fields()...)

	// Failed batches are already counted; only an aborted run is reported.
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// sinkCloser owns the sink and whatever backs it.
type sinkCloser struct {
	ports.RecordSink
	release func() error
}

func (s sinkCloser) Close() error {
	return errors.Join(s.RecordSink.Close(), s.release())
}

func openSink(ctx context.Context, output string, log *zap.Logger) (ports.RecordSink, error) {
	switch kind := config.Get("SINK", "csv"); kind {
	case "csv":
		sink, err := artifact.CreateCSVSink(output)
		if err != nil {
			return nil, err
		}
		log.Info("writing artifact", zap.String("path", sink.Path()))
		return sink, nil

	case "cache":
		cfg, err := config.LoadCache()
		if err != nil {
			return nil, err
		}
		store, release, err := cache.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		log.Info("writing to pair store", zap.String("backend", cfg.Backend))
		return sinkCloser{RecordSink: cache.NewStoreSink(store), release: release}, nil

	default:
		return nil, fmt.Errorf("unknown SINK %q (want csv or cache)", kind)
	}
}
