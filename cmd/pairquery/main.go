package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"footpath-matrix-service/internal/adapters/cache"
	"footpath-matrix-service/internal/config"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/platform/logger"
	"footpath-matrix-service/internal/services"
	"os"
	"time"

	"go.uber.org/zap"
)

func main() {
	from := flag.String("from", "", "first stop id")
	to := flag.String("to", "", "second stop id")
	flag.Parse()

	if *from == "" || *to == "" {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(query(*from, *to))
}

func query(from, to string) int {
	config.LoadEnv()

	log, err := logger.New(config.Get("APP_ENV", "development"), "pairquery")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.LoadCache()
	if err != nil {
		log.Error("cache config", zap.Error(err))
		return 1
	}

	store, release, err := cache.Open(ctx, cfg, log)
	if err != nil {
		log.Error("pair store unavailable", zap.Error(err))
		return 1
	}
	defer release()

	d, err := services.NewPairCache(store, log).Lookup(ctx, from, to)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fmt.Println("not found")
	case err != nil:
		log.Error("lookup failed", zap.Error(err))
		return 1
	case !d.Routed():
		fmt.Printf("%s -> %s: no walking route\n", from, to)
	default:
		fmt.Printf("%s -> %s: %s s\n", from, to, d)
	}
	return 0
}
