package main

import (
	"context"
	"fmt"
	"footpath-matrix-service/internal/adapters/cache"
	"footpath-matrix-service/internal/api"
	"footpath-matrix-service/internal/config"
	"footpath-matrix-service/internal/platform/logger"
	"footpath-matrix-service/internal/services"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// main is the lookup API composition root. It opens the pair store selected
// by CACHE_BACKEND and serves /footpaths on top of it.
func main() {
	os.Exit(serve())
}

func serve() int {
	config.LoadEnv()

	log, err := logger.New(config.Get("APP_ENV", "development"), "server")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	cfg, err := config.LoadCache()
	if err != nil {
		log.Error("cache config", zap.Error(err))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, release, err := cache.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("pair store unavailable", zap.String("backend", cfg.Backend), zap.Error(err))
		return 1
	}
	defer release()

	router := api.NewRouter(services.NewPairCache(store, log), log)
	port := config.Get("PORT", "8080")

	log.Info("server listening", zap.String("addr", ":"+port))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}
