package astro

import "math"

// Normalize reduces an angle in degrees to [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// SignedDelta returns target-current reduced to (-180,180].
func SignedDelta(target, current float64) float64 {
	d := Normalize(target - current)
	if d > 180 {
		d -= 360
	}
	return d
}

// Separation returns the unsigned angular distance between two longitudes,
// in [0,180].
func Separation(a, b float64) float64 {
	sep := math.Abs(a - b)
	if sep > 180 {
		sep = 360 - sep
	}
	return sep
}
