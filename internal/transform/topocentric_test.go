package transform

import (
	"math"
	"testing"
)

func ecefNorm(o ObserverPosition) float64 {
	return math.Sqrt(o.ECEFx*o.ECEFx + o.ECEFy*o.ECEFy + o.ECEFz*o.ECEFz)
}

func TestNewObserverPosition_Ellipsoid(t *testing.T) {
	tests := []struct {
		name       string
		lat, h     float64
		wantRadius float64
	}{
		{"equator", 0, 0, wgs84A},
		{"pole", 90, 0, 6356752.314},
		{"equator 2400 m", 0, 2400, wgs84A + 2400},
		{"pole 2400 m", -90, 2400, 6356752.314 + 2400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ecefNorm(NewObserverPosition(tt.lat, 0, tt.h))
			if math.Abs(got-tt.wantRadius) > 0.01 {
				t.Errorf("|ECEF| = %.3f m, want %.3f m", got, tt.wantRadius)
			}
		})
	}
}

func TestObserverPosition_Degrees(t *testing.T) {
	obs := NewObserverPosition(28.7606, -17.8792, 2327)
	if math.Abs(obs.LatDeg()-28.7606) > 1e-9 {
		t.Errorf("LatDeg() = %.6f, want 28.7606", obs.LatDeg())
	}
	if math.Abs(obs.LonDeg()+17.8792) > 1e-9 {
		t.Errorf("LonDeg() = %.6f, want -17.8792", obs.LonDeg())
	}
	if obs.AltM != 2327 {
		t.Errorf("AltM = %.1f, want 2327", obs.AltM)
	}
}

func TestECEFToLookAngles_SolarDistance(t *testing.T) {
	// Observer on the equator at the prime meridian: local up is +X, east is +Y
	// and north is +Z. Each body sits one astronomical unit from the observer.
	obs := NewObserverPosition(0, 0, 0)
	au := AstronomicalUnitKm * 1000

	tests := []struct {
		name       string
		dx, dy, dz float64
		wantEl     float64
		wantAz     float64 // NaN when azimuth is undefined
	}{
		{"zenith", 1, 0, 0, 90, math.NaN()},
		{"nadir", -1, 0, 0, -90, math.NaN()},
		{"north horizon", 0, 0, 1, 0, 0},
		{"east horizon", 0, 1, 0, 0, 90},
		{"south horizon", 0, 0, -1, 0, 180},
		{"west horizon", 0, -1, 0, 0, 270},
		{"east at 30 deg", math.Sin(math.Pi / 6), math.Cos(math.Pi / 6), 0, 30, 90},
		{"south at -14 deg", -math.Sin(14 * math.Pi / 180), 0, -math.Cos(14 * math.Pi / 180), -14, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			la := ECEFToLookAngles(obs,
				obs.ECEFx+tt.dx*au,
				obs.ECEFy+tt.dy*au,
				obs.ECEFz+tt.dz*au,
			)
			if math.Abs(la.ElevationDeg-tt.wantEl) > 1e-6 {
				t.Errorf("elevation = %.6f deg, want %.1f", la.ElevationDeg, tt.wantEl)
			}
			if !math.IsNaN(tt.wantAz) {
				diff := math.Abs(la.AzimuthDeg - tt.wantAz)
				if diff > 180 {
					diff = 360 - diff
				}
				if diff > 1e-6 {
					t.Errorf("azimuth = %.6f deg, want %.1f", la.AzimuthDeg, tt.wantAz)
				}
			}
			if math.Abs(la.RangeKm-AstronomicalUnitKm) > 1e-3 {
				t.Errorf("range = %.3f km, want %.3f km", la.RangeKm, AstronomicalUnitKm)
			}
		})
	}
}

func TestECEFToLookAngles_GeocentricSun(t *testing.T) {
	// With the Sun in the equatorial plane over the observer's meridian, the
	// topocentric elevation is 90 - |lat| to within solar parallax.
	sun := AstronomicalUnitKm * 1000

	for _, lat := range []float64{-60, -24.6, 0, 19.8, 52} {
		obs := NewObserverPosition(lat, 0, 0)
		la := ECEFToLookAngles(obs, sun, 0, 0)

		want := 90 - math.Abs(lat)
		if math.Abs(la.ElevationDeg-want) > 0.01 {
			t.Errorf("lat %.1f: elevation = %.4f deg, want %.4f", lat, la.ElevationDeg, want)
		}
		if la.RangeKm < 0.99*AstronomicalUnitKm || la.RangeKm > 1.01*AstronomicalUnitKm {
			t.Errorf("lat %.1f: range = %.0f km, want about 1 AU", lat, la.RangeKm)
		}
	}
}
