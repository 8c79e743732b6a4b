// Package apperr defines the error kinds shared across the planner.
package apperr

import "errors"

var (
	// ErrInvalidDate reports a night string that is not a YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidEphemeris reports a malformed input row or a non-positive period.
	ErrInvalidEphemeris = errors.New("invalid ephemeris")
	// ErrPositionUnavailable reports that the Sun's altitude could not be computed
	// for one instant. It only ever drops that instant.
	ErrPositionUnavailable = errors.New("solar position unavailable")
	// ErrUnknownSite reports an observatory name that is not in the registry.
	ErrUnknownSite = errors.New("unknown observatory")
)
