package domain

import "strings"

// KeySeparator joins the two stop ids of a PairKey. Stop ids containing it
// are rejected at catalog load so keys stay unambiguous.
const KeySeparator = ":"

// PairRecord is the walking duration between two stops, one per unordered pair.
type PairRecord struct {
	StopA    string
	StopB    string
	Duration Duration
}

// Key returns the canonical cache key of the record's pair.
func (r PairRecord) Key() string { return PairKey(r.StopA, r.StopB) }

// PairKey builds an order-independent key: the lexicographically smaller id
// first, so PairKey(a, b) == PairKey(b, a).
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + KeySeparator + b
}

// ValidStopID reports whether id can take part in a PairKey.
func ValidStopID(id string) bool {
	return id != "" && !strings.Contains(id, KeySeparator)
}
