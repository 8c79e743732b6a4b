package transform

import "math"

// AstronomicalUnitKm is the IAU 2012 astronomical unit in kilometres.
const AstronomicalUnitKm = 149597870.7

const deg = math.Pi / 180.0

// SunPosition is the Sun's apparent geocentric place.
type SunPosition struct {
	RightAscensionRad float64 // [0, 2π)
	DeclinationRad    float64
	DistanceAU        float64
}

// SunEquatorial returns the Sun's geocentric right ascension, declination and
// distance for a Julian Date (UTC). Uses the low-precision formulae of the
// Astronomical Almanac (section C), good to about 0.01° between 1950 and 2050.
func SunEquatorial(jd float64) SunPosition {
	n := jd - j2000

	meanLon := normalizeDeg(280.460 + 0.9856474*n)
	meanAnom := normalizeDeg(357.528+0.9856003*n) * deg

	eclLon := (meanLon + 1.915*math.Sin(meanAnom) + 0.020*math.Sin(2*meanAnom)) * deg
	obliquity := (23.439 - 0.0000004*n) * deg

	ra := math.Atan2(math.Cos(obliquity)*math.Sin(eclLon), math.Cos(eclLon))
	if ra < 0 {
		ra += 2 * math.Pi
	}

	return SunPosition{
		RightAscensionRad: ra,
		DeclinationRad:    math.Asin(math.Sin(obliquity) * math.Sin(eclLon)),
		DistanceAU:        1.00014 - 0.01671*math.Cos(meanAnom) - 0.00014*math.Cos(2*meanAnom),
	}
}

// Equatorial returns the Sun's geocentric position vector in km.
func (s SunPosition) Equatorial() PositionEquatorial {
	r := s.DistanceAU * AstronomicalUnitKm
	cosDec := math.Cos(s.DeclinationRad)

	return PositionEquatorial{
		X: r * cosDec * math.Cos(s.RightAscensionRad),
		Y: r * cosDec * math.Sin(s.RightAscensionRad),
		Z: r * math.Sin(s.DeclinationRad),
	}
}

// SunLookAngles computes the Sun's topocentric azimuth and elevation for an
// observer at the given Julian Date (UTC). No refraction is applied.
func SunLookAngles(obs ObserverPosition, jd float64) LookAngles {
	ecef := EquatorialToECEF(SunEquatorial(jd).Equatorial(), GMSTJulian(jd))
	return ECEFToLookAngles(obs, ecef.X, ecef.Y, ecef.Z)
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}
