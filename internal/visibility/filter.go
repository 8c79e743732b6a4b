// Package visibility decides whether the sky is dark enough to observe at an instant.
package visibility

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/star/quadplan/internal/apperr"
	"github.com/star/quadplan/internal/transform"
)

// DarknessThreshold is the solar altitude in degrees below which an instant
// counts as observable. The comparison is strict.
const DarknessThreshold = -14.0

// AltitudeProvider returns the Sun's altitude in degrees for a Julian Date (UTC)
// at an observer's location.
type AltitudeProvider interface {
	Altitude(ctx context.Context, jd float64, obs transform.ObserverPosition) (float64, error)
}

// AltitudeFunc adapts an ordinary function to AltitudeProvider.
type AltitudeFunc func(ctx context.Context, jd float64, obs transform.ObserverPosition) (float64, error)

// Altitude calls f.
func (f AltitudeFunc) Altitude(ctx context.Context, jd float64, obs transform.ObserverPosition) (float64, error) {
	return f(ctx, jd, obs)
}

// Filter checks instants against DarknessThreshold for one observer.
type Filter struct {
	provider AltitudeProvider
	observer transform.ObserverPosition
}

// NewFilter creates a Filter for the observer using provider for solar positions.
func NewFilter(provider AltitudeProvider, observer transform.ObserverPosition) *Filter {
	return &Filter{provider: provider, observer: observer}
}

// Observable returns the Sun's altitude at jd and whether it is below
// DarknessThreshold. A provider failure or a non-finite altitude is returned
// wrapped in apperr.ErrPositionUnavailable; cancellation of ctx is returned as is.
// There are no retries.
func (f *Filter) Observable(ctx context.Context, jd float64) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	alt, err := f.provider.Altitude(ctx, jd, f.observer)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, false, err
		}
		return 0, false, fmt.Errorf("%w at JD %.6f: %w", apperr.ErrPositionUnavailable, jd, err)
	}
	if math.IsNaN(alt) || math.IsInf(alt, 0) {
		return 0, false, fmt.Errorf("%w at JD %.6f: altitude is %v", apperr.ErrPositionUnavailable, jd, alt)
	}

	return alt, alt < DarknessThreshold, nil
}
