package visibility

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathan-osman/go-sunrise"

	"github.com/star/quadplan/internal/transform"
)

// Provider names accepted by NewProvider.
const (
	ProviderAlmanac = "almanac"
	ProviderSunrise = "sunrise"
)

// AlmanacProvider computes the Sun's topocentric altitude with the
// low-precision Astronomical Almanac formulae in package transform.
type AlmanacProvider struct{}

// Altitude implements AltitudeProvider.
func (AlmanacProvider) Altitude(_ context.Context, jd float64, obs transform.ObserverPosition) (float64, error) {
	return transform.SunLookAngles(obs, jd).ElevationDeg, nil
}

// SunriseProvider computes the Sun's altitude with github.com/nathan-osman/go-sunrise.
// The observer's height is ignored.
type SunriseProvider struct{}

// Altitude implements AltitudeProvider.
func (SunriseProvider) Altitude(_ context.Context, jd float64, obs transform.ObserverPosition) (float64, error) {
	return sunrise.Elevation(obs.LatDeg(), obs.LonDeg(), transform.TimeFromJulianDate(jd)), nil
}

// NewProvider returns the provider registered under name.
// An empty name selects the almanac provider.
func NewProvider(name string) (AltitudeProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderAlmanac:
		return AlmanacProvider{}, nil
	case ProviderSunrise:
		return SunriseProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown altitude provider %q (want %s or %s)", name, ProviderAlmanac, ProviderSunrise)
	}
}
