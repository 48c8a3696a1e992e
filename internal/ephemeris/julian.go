package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/deltat"
	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// J2000 is the Julian day of 2000-01-01 12:00 TT.
	J2000 = 2451545.0

	secondsPerDay = 86400.0
)

// JulianDay converts an instant to a UT Julian day. The instant's location is
// irrelevant: the conversion always works on its UTC value.
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJulian converts a UT Julian day back to a UTC instant, rounded to
// the nearest millisecond.
func TimeFromJulian(jd float64) time.Time {
	return julian.JDToTime(jd).UTC().Round(time.Millisecond)
}

// JulianDayUTC converts UTC calendar fields to a Julian day.
func JulianDayUTC(year, month, day, hour, minute int, second float64) float64 {
	frac := (float64(hour) + float64(minute)/60 + second/3600) / 24
	return julian.CalendarGregorianToJD(year, month, float64(day)+frac)
}

// CalendarFromJulian converts a Julian day to UTC calendar fields with
// fractional seconds.
func CalendarFromJulian(jd float64) (year, month, day, hour, minute int, second float64) {
	t := TimeFromJulian(jd)
	year, m, day := t.Date()
	return year, int(m), day, t.Hour(), t.Minute(), float64(t.Second()) + float64(t.Nanosecond())/1e9
}

// ephemerisDay shifts a UT Julian day onto the TT scale.
func ephemerisDay(jd float64) float64 {
	return jd + deltaT(jd)/secondsPerDay
}

// centuries returns Julian centuries since J2000 for a TT Julian day.
func centuries(jde float64) float64 {
	return (jde - J2000) / 36525
}

// tableEnd is the last year of the observed TT-UT table.
const tableEnd = 1998

// deltaT returns TT-UT in seconds: interpolated from the observed table up to
// 1998, then the Espenak-Meeus extrapolation polynomials.
func deltaT(jd float64) float64 {
	y := 2000 + (jd-J2000)/365.25
	switch {
	case y < tableEnd:
		return float64(deltat.Interp10A(jd))
	case y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t +
			0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*math.Max(0, 2150-y)
	}
}
