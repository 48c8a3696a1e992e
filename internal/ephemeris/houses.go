package ephemeris

import (
	"math"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// houseFrame carries the quantities every house system derives from.
type houseFrame struct {
	armc float64 // local apparent sidereal time, degrees
	lat  float64 // geographic latitude, degrees north
	eps  float64 // true obliquity, degrees
	asc  float64
	mc   float64
}

func newHouseFrame(jd, lat, lon float64) houseFrame {
	eps := trueObliquity(ephemerisDay(jd))
	armc := astro.Normalize(siderealTime(jd) + lon)
	f := houseFrame{armc: armc, lat: lat, eps: eps}
	f.mc = raToLongitude(armc, eps)
	f.asc = ascAtPole(armc, lat, eps)
	return f
}

// raToLongitude returns the ecliptic longitude whose right ascension is ra.
func raToLongitude(ra, eps float64) float64 {
	return astro.Normalize(atan2d(sind(ra), cosd(ra)*cosd(eps)))
}

// ascAtPole returns the eastern intersection of the ecliptic with the great
// circle whose pole height is pole, for sidereal angle r. With pole equal to
// the geographic latitude and r the ARMC this is the Ascendant.
func ascAtPole(r, pole, eps float64) float64 {
	return astro.Normalize(atan2d(cosd(r), -(sind(r)*cosd(eps) + tand(pole)*sind(eps))))
}

// cusps dispatches to the selected system and fills the opposite houses.
func (f houseFrame) cusps(sys astro.HouseSystem) astro.HouseCusps {
	var c astro.HouseCusps
	switch sys {
	case astro.Equal:
		for i := range c {
			c[i] = astro.Normalize(f.asc + 30*float64(i))
		}
		return c
	case astro.WholeSign:
		start := math.Floor(f.asc/30) * 30
		for i := range c {
			c[i] = astro.Normalize(start + 30*float64(i))
		}
		return c
	case astro.Koch:
		c[10], c[11], c[1], c[2] = f.koch()
	case astro.Regiomontanus:
		c[10], c[11], c[1], c[2] = f.poleCusp(30, false), f.poleCusp(60, false), f.poleCusp(120, false), f.poleCusp(150, false)
	case astro.Campanus:
		c[10], c[11], c[1], c[2] = f.poleCusp(30, true), f.poleCusp(60, true), f.poleCusp(120, true), f.poleCusp(150, true)
	default:
		c[10] = f.placidus(1.0/3, true)
		c[11] = f.placidus(2.0/3, true)
		c[1] = f.placidus(2.0/3, false)
		c[2] = f.placidus(1.0/3, false)
	}
	c[0] = f.asc
	c[9] = f.mc
	for _, i := range []int{0, 1, 2, 9, 10, 11} {
		c[(i+6)%12] = astro.Normalize(c[i] + 180)
	}
	return c
}

// placidus iterates to the ecliptic point whose hour angle is the given
// fraction of its own semi-arc. Above the horizon the diurnal arc is measured
// from the MC; below it the nocturnal arc is measured back from the IC.
func (f houseFrame) placidus(frac float64, above bool) float64 {
	ra := f.armc + 90*frac
	if !above {
		ra = f.armc + 180 - 90*frac
	}
	lam := raToLongitude(ra, f.eps)
	for range 50 {
		decl := asind(sind(f.eps) * sind(lam))
		dsa := acosd(-tand(f.lat) * tand(decl))
		if above {
			ra = f.armc + frac*dsa
		} else {
			ra = f.armc + 180 - frac*(180-dsa)
		}
		next := raToLongitude(ra, f.eps)
		done := math.Abs(astro.SignedDelta(next, lam)) < 1e-9
		lam = next
		if done {
			break
		}
	}
	return lam
}

// koch trisects the diurnal semi-arc of the MC degree and applies the same
// step below the horizon. Returns cusps 11, 12, 2, 3.
func (f houseFrame) koch() (c11, c12, c2, c3 float64) {
	decl := asind(sind(f.eps) * sind(f.mc))
	ad := asind(tand(f.lat) * tand(decl))
	step := (90 + ad) / 3
	cusp := func(n float64) float64 { return ascAtPole(f.armc+n*step, f.lat, f.eps) }
	return cusp(-2), cusp(-1), cusp(1), cusp(2)
}

// poleCusp computes a cusp for the systems that divide a great circle into
// equal arcs: the equator (Regiomontanus) or the prime vertical (Campanus).
// h is the division angle measured from the meridian.
func (f houseFrame) poleCusp(h float64, campanus bool) float64 {
	a, pole := h, atand(tand(f.lat)*sind(h))
	if campanus {
		a = atan2d(sind(h)*cosd(f.lat), cosd(h))
		pole = asind(sind(f.lat) * sind(h))
	}
	return ascAtPole(f.armc+a-90, pole, f.eps)
}
