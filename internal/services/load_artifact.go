package services

import (
	"context"
	"fmt"
	"footpath-matrix-service/internal/adapters/artifact"
	"footpath-matrix-service/internal/domain"
	"os"

	"go.uber.org/zap"
)

// LoadArtifact streams a duration artifact into the pair cache.
// Not being able to open the artifact is fatal (ErrResourceUnavailable);
// bad lines and failed writes are only counted.
func LoadArtifact(ctx context.Context, path string, cache *PairCache, log *zap.Logger) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("load artifact %q: %w: %w", path, domain.ErrResourceUnavailable, err)
	}
	defer f.Close()

	log.Info("loading artifact", zap.String("path", path))

	stats, err := cache.Load(ctx, artifact.NewReader(f).All())
	if err != nil {
		return stats, fmt.Errorf("load artifact %q: %w", path, err)
	}

	return stats, nil
}
