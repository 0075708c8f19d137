package services

import (
	"context"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/ports"

	"go.uber.org/zap"
)

// Catalog is the global, ordered stop sequence of one run. A stop's position
// in Stops is its index in every planned batch.
type Catalog struct {
	Stops     []domain.Stop
	Skipped   int
	PerSource map[string]int
}

// LoadCatalog concatenates the stops of every source in the given order.
// Rows a source could not parse and ids already seen in an earlier source
// are skipped and counted; failing to open a source aborts the load.
func LoadCatalog(ctx context.Context, sources []ports.StopSource, log *zap.Logger) (*Catalog, error) {
	cat := &Catalog{
		Stops:     make([]domain.Stop, 0, 1024),
		PerSource: make(map[string]int, len(sources)),
	}
	seen := make(map[string]string)

	for _, src := range sources {
		stops, skipped, err := src.LoadStops(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog: source %s: %w", src.Name(), err)
		}
		cat.Skipped += skipped

		loaded := 0
		for _, s := range stops {
			if first, ok := seen[s.StopID]; ok {
				cat.Skipped++
				log.Warn("skip duplicate stop id",
					zap.String("stop_id", s.StopID),
					zap.String("agency", src.Name()),
					zap.String("first_agency", first),
				)
				continue
			}
			seen[s.StopID] = src.Name()
			cat.Stops = append(cat.Stops, s)
			loaded++
		}
		cat.PerSource[src.Name()] = loaded

		log.Info("loaded stops",
			zap.String("agency", src.Name()),
			zap.Int("stops", loaded),
			zap.Int("skipped", skipped),
		)
	}

	log.Info("catalog ready", zap.Int("stops", len(cat.Stops)), zap.Int("skipped", cat.Skipped))
	return cat, nil
}
