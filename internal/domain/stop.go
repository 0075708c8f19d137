package domain

// Represents a transit boarding/alighting location.
// Stops are created once while loading the catalog and never mutated;
// StopID is unique across every agency source of one run.
type Stop struct {
	StopID string
	Agency string
	Coordinates
}
