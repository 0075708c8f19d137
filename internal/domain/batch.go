package domain

import "fmt"

// Batch is one table query: a single source stop and an inclusive range of
// destination stops, all addressed by global catalog index.
//
// Invariant: Source < DestStart <= DestEnd.
type Batch struct {
	Source    int
	DestStart int
	DestEnd   int
}

// Size is the number of destinations covered by the batch.
func (b Batch) Size() int { return b.DestEnd - b.DestStart + 1 }

// Validate checks the batch against a catalog of totalStops stops.
func (b Batch) Validate(totalStops int) error {
	if b.Source < 0 || b.Source >= b.DestStart || b.DestStart > b.DestEnd || b.DestEnd >= totalStops {
		return fmt.Errorf("invalid batch %s for %d stops", b, totalStops)
	}
	return nil
}

func (b Batch) String() string {
	return fmt.Sprintf("(%d, %d, %d)", b.Source, b.DestStart, b.DestEnd)
}
