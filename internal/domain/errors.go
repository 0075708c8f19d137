package domain

import "errors"

// Error kinds shared by adapters and services; match with errors.Is.
var (
	// Malformed stop row or artifact line; the record is skipped.
	ErrInputParse = errors.New("input parse error")
	// Routing service or cache store unreachable, timed out or non-2xx.
	ErrTransport = errors.New("transport failure")
	// Routing service answered with an unexpected payload.
	ErrPayload = errors.New("response payload error")
	// A resource required for the whole run is missing; the run aborts.
	ErrResourceUnavailable = errors.New("resource unavailable")
	// No cached duration for the requested pair.
	ErrNotFound = errors.New("not found")
)
