package ephemeris

import (
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// nutationInLongitude returns Δψ in degrees for a TT Julian day.
func nutationInLongitude(jde float64) float64 {
	dpsi, _ := nutation.Nutation(jde)
	return dpsi.Deg()
}

// trueObliquity is the mean obliquity corrected for nutation, in degrees.
func trueObliquity(jde float64) float64 {
	_, deps := nutation.Nutation(jde)
	return nutation.MeanObliquity(jde).Deg() + deps.Deg()
}

// precession returns the general precession in longitude accumulated since
// J2000, in degrees.
func precession(T float64) float64 {
	return (5029.0966*T + 1.11113*T*T) / 3600
}

// siderealTime returns apparent Greenwich sidereal time in degrees for a UT
// Julian day.
func siderealTime(jd float64) float64 {
	// 86400 seconds of sidereal time span 360 degrees.
	return float64(sidereal.Apparent(jd)) / 240
}
