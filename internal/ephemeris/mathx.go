package ephemeris

import "math"

const (
	deg = math.Pi / 180
	rad = 180 / math.Pi
)

func sind(x float64) float64 { return math.Sin(x * deg) }
func cosd(x float64) float64 { return math.Cos(x * deg) }
func tand(x float64) float64 { return math.Tan(x * deg) }

func asind(x float64) float64 { return math.Asin(clampUnit(x)) * rad }
func acosd(x float64) float64 { return math.Acos(clampUnit(x)) * rad }
func atand(x float64) float64 { return math.Atan(x) * rad }

func atan2d(y, x float64) float64 { return math.Atan2(y, x) * rad }

// clampUnit keeps inverse-trig arguments inside [-1,1]; rounding and polar
// latitudes can push them just outside.
func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
