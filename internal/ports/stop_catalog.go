package ports

import (
	"context"
	"footpath-matrix-service/internal/domain"
)

// Port: a boundary for reading the stops of one agency.
type StopSource interface {
	// Name identifies the source in logs and on the loaded stops.
	Name() string
	// Retrieve the agency's stops in file order, plus the number of rows skipped.
	LoadStops(ctx context.Context) (stops []domain.Stop, skipped int, err error)
}
