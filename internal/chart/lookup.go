package chart

import (
	"fmt"
	"math"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// Sign is a zodiac sign, Aries through Pisces.
type Sign int

// Zodiac signs in ecliptic order; each spans 30 degrees starting at 0° Aries.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Traditional rulerships; the outer planets rule nothing.
var signRulers = [...]astro.Body{
	Aries:       astro.Mars,
	Taurus:      astro.Venus,
	Gemini:      astro.Mercury,
	Cancer:      astro.Moon,
	Leo:         astro.Sun,
	Virgo:       astro.Mercury,
	Libra:       astro.Venus,
	Scorpio:     astro.Mars,
	Sagittarius: astro.Jupiter,
	Capricorn:   astro.Saturn,
	Aquarius:    astro.Saturn,
	Pisces:      astro.Jupiter,
}

// String returns the sign name.
func (s Sign) String() string {
	if s < Aries || s > Pisces {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// SignOf returns the sign containing a longitude in [0,360).
func SignOf(lon float64) Sign {
	return Sign(int(math.Floor(lon/30)) % 12)
}

// Ruler returns the traditional ruler of s.
func Ruler(s Sign) astro.Body {
	return signRulers[s]
}

// HouseOf returns the house (1..12) containing lon. Each house is the
// half-open arc [cusp[i], cusp[i+1]) taken counter-clockwise, house 12
// wrapping back to cusp 1, so a longitude on a cusp belongs to the house that
// starts there. It returns 0 when no house contains lon, which happens only
// for degenerate cusps such as all-equal values near the poles.
func HouseOf(lon float64, cusps astro.HouseCusps) int {
	for i := range cusps {
		start, end := cusps[i], cusps[(i+1)%12]
		width := astro.Normalize(end - start)
		if astro.Normalize(lon-start) < width {
			return i + 1
		}
	}
	return 0
}

// RuledHouses returns the houses whose cusp falls in a sign traditionally
// ruled by body, in house order.
func RuledHouses(body astro.Body, cusps astro.HouseCusps) []int {
	var out []int
	for i, c := range cusps {
		if Ruler(SignOf(c)) == body {
			out = append(out, i+1)
		}
	}
	return out
}

// FormatLongitude renders a longitude as degrees and minutes within its
// sign, e.g. "15°23' Taurus".
func FormatLongitude(lon float64) string {
	lon = astro.Normalize(lon)
	within := math.Mod(lon, 30)
	d := int(within)
	m := int(math.Round((within - float64(d)) * 60))
	sign := SignOf(lon)
	if m == 60 {
		d, m = d+1, 0
		if d == 30 {
			d = 0
			sign = (sign + 1) % 12
		}
	}
	return fmt.Sprintf("%d°%02d' %s", d, m, sign)
}
