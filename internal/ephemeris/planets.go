package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/pluto"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// elements are osculating Keplerian elements at J2000 with their linear rates
// per Julian century, referred to the J2000 ecliptic and equinox.
type elements struct {
	a, e, i, l, peri, node       float64
	da, de, di, dl, dperi, dnode float64
}

// Approximate elements for 1800-2050 (Standish, JPL). Jupiter and Saturn
// perturb each other too strongly for a single ellipse; see giantElements.
var planetElements = map[astro.Body]elements{
	astro.Mercury: {0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081},
	astro.Venus: {0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418},
	astro.Mars: {1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343},
	astro.Uranus: {19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503,
		-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589},
	astro.Neptune: {30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574,
		0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.00508664},
	astro.Pluto: {39.48211675, 0.24882730, 17.14001206, 238.92903833, 224.06891629, 110.30393684,
		-0.00031596, 0.00005170, 0.00004818, 145.20780515, -0.04062942, -0.01183482},
}

// Earth-Moon barycenter, used as the observer for geocentric positions.
var earthElements = elements{
	1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0,
	0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0,
}

// giantElements are mean elements referred to the equinox of date, with rates
// per day counted from 2000 January 0.0 TT.
type giantElements struct {
	node, dnode float64
	incl, dincl float64
	argp, dargp float64
	a           float64
	e, de       float64
	m, dm       float64
}

var (
	jupiterElements = giantElements{100.4542, 2.76854e-5, 1.3030, -1.557e-7, 273.8777, 1.64505e-5,
		5.20256, 0.048498, 4.469e-9, 19.8950, 0.0830853001}
	saturnElements = giantElements{113.6634, 2.38980e-5, 2.4886, -1.081e-7, 339.3939, 2.97661e-5,
		9.55475, 0.055546, -9.499e-9, 316.9670, 0.0334442282}
)

// plutoTheoryStart is the first Julian day covered by the periodic Pluto
// theory (1885-01-01). Earlier dates fall back to the mean ellipse.
const plutoTheoryStart = 2409177.5

// aberration is the annual aberration of the Sun, in degrees.
const aberration = 20.4898 / 3600

// lightTimePerAU is the light travel time across one astronomical unit, in days.
const lightTimePerAU = 0.0057755183

// heliocentric returns rectangular J2000 ecliptic coordinates in AU.
func heliocentric(el elements, T float64) (x, y, z float64) {
	a := el.a + el.da*T
	e := el.e + el.de*T
	inc := el.i + el.di*T
	l := el.l + el.dl*T
	peri := el.peri + el.dperi*T
	node := el.node + el.dnode*T

	w := peri - node
	m := astro.SignedDelta(l-peri, 0) * deg
	ea := solveKepler(m, e)

	xp := a * (math.Cos(ea) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ea)

	cw, sw := cosd(w), sind(w)
	cn, sn := cosd(node), sind(node)
	ci, si := cosd(inc), sind(inc)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// anomaly returns the mean anomaly in degrees, d days after 2000 January 0.0.
func (g giantElements) anomaly(d float64) float64 {
	return g.m + g.dm*d
}

// spherical returns heliocentric ecliptic longitude and latitude of date in
// degrees and the radius vector in AU, before perturbations.
func (g giantElements) spherical(d float64) (lon, lat, r float64) {
	node := g.node + g.dnode*d
	incl := g.incl + g.dincl*d
	argp := g.argp + g.dargp*d
	e := g.e + g.de*d

	ea := solveKepler(astro.SignedDelta(g.anomaly(d), 0)*deg, e)
	xv := g.a * (math.Cos(ea) - e)
	yv := g.a * math.Sqrt(1-e*e) * math.Sin(ea)
	u := atan2d(yv, xv) + argp
	r = math.Hypot(xv, yv)

	xh := r * (cosd(node)*cosd(u) - sind(node)*sind(u)*cosd(incl))
	yh := r * (sind(node)*cosd(u) + cosd(node)*sind(u)*cosd(incl))
	zh := r * sind(u) * sind(incl)
	return atan2d(yh, xh), atan2d(zh, math.Hypot(xh, yh)), r
}

// giantPosition returns J2000 rectangular coordinates for Jupiter or Saturn,
// including the largest terms of their mutual perturbations (the great
// inequality dominates).
func giantPosition(b astro.Body, T float64) (x, y, z float64) {
	d := T*36525 + 1.5
	mj := jupiterElements.anomaly(d)
	ms := saturnElements.anomaly(d)

	var lon, lat, r float64
	if b == astro.Jupiter {
		lon, lat, r = jupiterElements.spherical(d)
		lon += -0.332*sind(2*mj-5*ms-67.6) - 0.056*sind(2*mj-2*ms+21) +
			0.042*sind(3*mj-5*ms+21) - 0.036*sind(mj-2*ms) + 0.022*cosd(mj-ms) +
			0.023*sind(2*mj-3*ms+52) - 0.016*sind(mj-5*ms-69)
	} else {
		lon, lat, r = saturnElements.spherical(d)
		lon += 0.812*sind(2*mj-5*ms-67.6) - 0.229*cosd(2*mj-4*ms-2) +
			0.119*sind(mj-2*ms-3) + 0.046*sind(2*mj-6*ms-69) + 0.014*sind(mj-3*ms+32)
		lat += -0.020*cosd(2*mj-4*ms-2) + 0.018*sind(2*mj-6*ms-49)
	}
	return rectangular(lon-precession(T), lat, r)
}

// planetPosition returns heliocentric J2000 rectangular coordinates in AU.
func planetPosition(b astro.Body, T float64) (x, y, z float64) {
	switch b {
	case astro.Jupiter, astro.Saturn:
		return giantPosition(b, T)
	case astro.Pluto:
		if jde := J2000 + T*36525; jde >= plutoTheoryStart {
			l, lat, r := pluto.Heliocentric(jde)
			return rectangular(l.Deg(), lat.Deg(), r)
		}
	}
	return heliocentric(planetElements[b], T)
}

func rectangular(lon, lat, r float64) (x, y, z float64) {
	return r * cosd(lat) * cosd(lon), r * cosd(lat) * sind(lon), r * sind(lat)
}

// solveKepler solves E - e*sin(E) = M for the eccentric anomaly (radians).
func solveKepler(m, e float64) float64 {
	ea := m + e*math.Sin(m)
	for range 15 {
		d := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return ea
}

// geocentricLongitude returns the geocentric ecliptic longitude referred to
// the mean equinox of date, in degrees, for the Sun or a planet at T Julian
// centuries (TT). Nutation is left to the caller.
func geocentricLongitude(b astro.Body, T float64) float64 {
	ex, ey, ez := heliocentric(earthElements, T)

	var lon float64
	if b == astro.Sun {
		lon = atan2d(-ey, -ex) - aberration
	} else {
		px, py, pz := planetPosition(b, T)
		dist := math.Sqrt((px-ex)*(px-ex) + (py-ey)*(py-ey) + (pz-ez)*(pz-ez))
		// Correct for light time once; the residual is far below chart precision.
		px, py, _ = planetPosition(b, T-dist*lightTimePerAU/36525)
		lon = atan2d(py-ey, px-ex)
	}
	return lon + precession(T)
}
