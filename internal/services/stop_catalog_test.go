package services

import (
	"context"
	"errors"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	name    string
	stops   []domain.Stop
	skipped int
	err     error
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) LoadStops(ctx context.Context) ([]domain.Stop, int, error) {
	return f.stops, f.skipped, f.err
}

func TestLoadCatalogConcatenatesInSourceOrder(t *testing.T) {
	sources := []ports.StopSource{
		fakeSource{name: "metro", stops: []domain.Stop{{StopID: "BAR2"}, {StopID: "TRD"}}, skipped: 1},
		fakeSource{name: "stcp", stops: []domain.Stop{{StopID: "5697"}, {StopID: "TRD"}, {StopID: "9999"}}},
	}

	cat, err := LoadCatalog(context.Background(), sources, zap.NewNop())
	require.NoError(t, err)

	ids := make([]string, 0, len(cat.Stops))
	for _, s := range cat.Stops {
		ids = append(ids, s.StopID)
	}
	require.Equal(t, []string{"BAR2", "TRD", "5697", "9999"}, ids)
	require.Equal(t, 2, cat.Skipped)
	require.Equal(t, map[string]int{"metro": 2, "stcp": 2}, cat.PerSource)
}

func TestLoadCatalogSourceFailure(t *testing.T) {
	sources := []ports.StopSource{
		fakeSource{name: "metro", err: domain.ErrResourceUnavailable},
	}

	_, err := LoadCatalog(context.Background(), sources, zap.NewNop())
	require.True(t, errors.Is(err, domain.ErrResourceUnavailable))
}
