package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Duration is a walking travel time in seconds. NoRoute marks a pair
// for which the routing service found no path; it is distinct from zero.
type Duration float64

const NoRoute Duration = -1

// Routed reports whether d is a real duration rather than NoRoute.
func (d Duration) Routed() bool { return d >= 0 }

// String renders the value used in artifacts and cache entries.
// NoRoute is always written as "-1".
func (d Duration) String() string {
	if !d.Routed() {
		return "-1"
	}
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// ParseDuration accepts a non-negative number of seconds or the "-1" sentinel.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty duration", ErrInputParse)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: duration %q", ErrInputParse, s)
	}
	if v == -1 {
		return NoRoute, nil
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative duration %q", ErrInputParse, s)
	}

	return Duration(v), nil
}
