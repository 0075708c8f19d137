package services

import (
	"fmt"
	"footpath-matrix-service/internal/domain"
	"iter"
)

// PlanBatches tiles the strict upper triangle of the totalStops x totalStops
// pair matrix into table requests of at most maxDestinations destinations.
//
// For each source i (0..totalStops-2) the destinations i+1..totalStops-1 are
// emitted as consecutive ranges; only the last range of a source may be
// narrower. Every pair {i, j}, i < j, appears in exactly one batch as
// (Source=i, destination=j). The sequence is stateless and can be ranged
// over any number of times.
func PlanBatches(totalStops, maxDestinations int) (iter.Seq[domain.Batch], error) {
	if maxDestinations < 1 {
		return nil, fmt.Errorf("plan batches: maxDestinations must be >= 1, got %d", maxDestinations)
	}
	if totalStops < 0 {
		return nil, fmt.Errorf("plan batches: totalStops must be >= 0, got %d", totalStops)
	}

	return func(yield func(domain.Batch) bool) {
		for source := 0; source < totalStops-1; source++ {
			for start := source + 1; start < totalStops; start += maxDestinations {
				end := min(start+maxDestinations-1, totalStops-1)
				if !yield(domain.Batch{Source: source, DestStart: start, DestEnd: end}) {
					return
				}
			}
		}
	}, nil
}

// CountPairs is the number of unordered pairs among totalStops stops.
func CountPairs(totalStops int) int {
	if totalStops < 2 {
		return 0
	}
	return totalStops * (totalStops - 1) / 2
}

// CountBatches is the number of batches PlanBatches emits, without iterating.
func CountBatches(totalStops, maxDestinations int) int {
	if maxDestinations < 1 {
		return 0
	}

	n := 0
	for source := 0; source < totalStops-1; source++ {
		remaining := totalStops - 1 - source
		n += (remaining + maxDestinations - 1) / maxDestinations
	}
	return n
}
