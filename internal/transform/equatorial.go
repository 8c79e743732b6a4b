// Package transform provides the time-scale and coordinate frame transformations
// needed to place the Sun in an observer's sky.
//
// Geocentric equatorial positions of date are rotated into ECEF with GMST only
// (equatorial → PEF ≈ ECEF). Polar motion, nutation and the equation of the
// equinoxes are ignored; the resulting error is a few arcseconds, far below
// what a darkness cut-off cares about.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3.
package transform

import "math"

// PositionEquatorial is a geocentric position in the true-of-date equatorial frame.
type PositionEquatorial struct {
	X, Y, Z float64 // km
}

// PositionECEF is a position in the Earth-Centered Earth-Fixed frame.
type PositionECEF struct {
	X, Y, Z float64 // meters
}

// EquatorialToECEF rotates an equatorial position into ECEF using a precomputed
// GMST angle (radians).
//
// Position transform: r_ECEF = R3(θ) * r_EQ
//
// where R3(θ) is a rotation about the Z-axis by angle θ (GMST).
// Input is km, output is meters.
func EquatorialToECEF(pos PositionEquatorial, gmst float64) PositionECEF {
	cosG := math.Cos(gmst)
	sinG := math.Sin(gmst)

	return PositionECEF{
		X: (pos.X*cosG + pos.Y*sinG) * 1000.0,
		Y: (-pos.X*sinG + pos.Y*cosG) * 1000.0,
		Z: pos.Z * 1000.0,
	}
}
