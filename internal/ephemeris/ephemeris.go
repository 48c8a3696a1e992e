// Package ephemeris is an analytic ephemeris: geocentric tropical longitudes
// for the Sun, Moon and planets, Julian day conversion, and house cusps for
// six house systems. Time scales, nutation, sidereal time, the Moon and Pluto
// come from the Meeus algorithms; the other planets use mean Keplerian
// elements, with the main Jupiter-Saturn perturbations applied to those two.
// Within the supported years the Sun and Moon are good to a few arc seconds,
// most planets to about an arc minute, and Jupiter and Saturn to about three
// arc minutes.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/moonposition"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// Sentinel errors returned by Analytic.
var (
	// ErrOutOfRange indicates an instant outside the supported years.
	ErrOutOfRange = errors.New("instant outside supported ephemeris range")
	// ErrInvalidLocation indicates a latitude or longitude outside valid bounds.
	ErrInvalidLocation = errors.New("invalid geographic location")
)

// Supported year range, inclusive.
const (
	MinYear = 1800
	MaxYear = 2099
)

// speedStep is the half-width, in days, of the finite difference used for speeds.
const speedStep = 0.01

// Analytic computes positions from closed-form theories. The zero value is
// ready to use and safe for concurrent use.
type Analytic struct{}

// New returns an analytic ephemeris.
func New() *Analytic {
	return &Analytic{}
}

// LongitudeSpeed returns the body's ecliptic longitude in [0,360) and, when
// withSpeed is set, its daily motion in degrees per day.
func (a *Analytic) LongitudeSpeed(t time.Time, body astro.Body, withSpeed bool) (float64, float64, error) {
	if !body.IsPlanet() {
		return 0, 0, fmt.Errorf("ephemeris: %w: %v", astro.ErrUnknownBody, body)
	}
	if err := checkRange(t); err != nil {
		return 0, 0, err
	}

	jd := JulianDay(t)
	lon := longitudeAt(body, jd)
	if !withSpeed {
		return lon, 0, nil
	}
	ahead := longitudeAt(body, jd+speedStep)
	behind := longitudeAt(body, jd-speedStep)
	speed := astro.SignedDelta(ahead, behind) / (2 * speedStep)
	return lon, speed, nil
}

// Houses returns the twelve cusps and the chart angles for the given place.
// Longitude is east-positive. Inside the polar circles the semi-arc systems
// (Placidus, Koch) degrade instead of failing.
func (a *Analytic) Houses(t time.Time, lat, lon float64, sys astro.HouseSystem) (astro.HouseCusps, astro.Angles, error) {
	if !sys.Valid() {
		return astro.HouseCusps{}, astro.Angles{}, fmt.Errorf("ephemeris: %w: %v", astro.ErrUnknownHouseSystem, sys)
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 360 {
		return astro.HouseCusps{}, astro.Angles{}, fmt.Errorf("ephemeris: %w: lat=%v lon=%v", ErrInvalidLocation, lat, lon)
	}
	if err := checkRange(t); err != nil {
		return astro.HouseCusps{}, astro.Angles{}, err
	}

	f := newHouseFrame(JulianDay(t), lat, lon)
	angles := astro.Angles{Ascendant: f.asc, Midheaven: f.mc, ARMC: f.armc}
	return f.cusps(sys), angles, nil
}

func longitudeAt(body astro.Body, jd float64) float64 {
	jde := ephemerisDay(jd)
	var lon float64
	if body == astro.Moon {
		l, _, _ := moonposition.Position(jde)
		lon = l.Deg()
	} else {
		lon = geocentricLongitude(body, centuries(jde))
	}
	return astro.Normalize(lon + nutationInLongitude(jde))
}

func checkRange(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("ephemeris: %w: zero instant", ErrOutOfRange)
	}
	y := t.UTC().Year()
	if y < MinYear || y > MaxYear {
		return fmt.Errorf("ephemeris: %w: year %d not in %d..%d", ErrOutOfRange, y, MinYear, MaxYear)
	}
	return nil
}
