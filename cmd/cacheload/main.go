package main

import (
	"context"
	"fmt"
	"footpath-matrix-service/internal/adapters/cache"
	"footpath-matrix-service/internal/config"
	"footpath-matrix-service/internal/platform/logger"
	"footpath-matrix-service/internal/services"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// main loads a duration artifact into the configured pair store.
func main() {
	os.Exit(start())
}

func start() int {
	config.LoadEnv()

	log, err := logger.New(config.Get("APP_ENV", "development"), "cacheload")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	log = log.With(zap.String("run_id", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("load aborted", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, log *zap.Logger) error {
	cfg, err := config.LoadCache()
	if err != nil {
		return err
	}

	store, release, err := cache.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("backend %s: %w", cfg.Backend, err)
	}
	defer func() {
		if err := release(); err != nil {
			log.Warn("close pair store", zap.Error(err))
		}
	}()

	pc := services.NewPairCache(store, log)
	if pc.ProgressEvery, err = config.GetInt("PROGRESS_EVERY", pc.ProgressEvery); err != nil {
		return err
	}

	began := time.Now()
	path := config.Get("ARTIFACT_PATH", config.DefaultOutput)

	stats, err := services.LoadArtifact(ctx, path, pc, log)
	log.Info("load finished", append(stats.Fields(), zap.Duration("elapsed", time.Since(began)))...)
	return err
}
