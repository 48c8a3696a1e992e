// Package chart is the position engine: natal charts, transits, secondary
// and solar-arc progressions, and solar/lunar returns, all computed through
// an injected ephemeris. It also provides the sign, house, and rulership
// lookups used when presenting a chart.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// ErrZeroInstant indicates a computation was requested for an unset instant.
var ErrZeroInstant = errors.New("chart: zero instant")

// Ephemeris is the astronomical collaborator the engine depends on. Instants
// passed to it are always UTC.
type Ephemeris interface {
	LongitudeSpeed(t time.Time, body astro.Body, withSpeed bool) (lon, speed float64, err error)
	Houses(t time.Time, lat, lon float64, sys astro.HouseSystem) (astro.HouseCusps, astro.Angles, error)
}

// Location is a geographic position in degrees; longitude is east-positive.
type Location struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// Chart is a computed chart for one instant and place.
type Chart struct {
	Instant     time.Time         `json:"instant" yaml:"instant"`
	Location    Location          `json:"location" yaml:"location"`
	HouseSystem astro.HouseSystem `json:"house_system" yaml:"house_system"`
	Placement   astro.Placement   `json:"placement" yaml:"placement"`
	Cusps       astro.HouseCusps  `json:"cusps" yaml:"cusps"`
	Angles      astro.Angles      `json:"angles" yaml:"angles"`
}

// Engine computes chart data. It holds no state besides its ephemeris, so a
// single Engine may be shared.
type Engine struct {
	eph Ephemeris
}

// NewEngine returns an engine backed by eph.
func NewEngine(eph Ephemeris) *Engine {
	return &Engine{eph: eph}
}

// BodyPosition returns the longitude and speed of one of the ten bodies at t.
func (e *Engine) BodyPosition(t time.Time, body astro.Body) (astro.Position, error) {
	if !body.IsPlanet() {
		return astro.Position{}, fmt.Errorf("chart: %w: %v", astro.ErrUnknownBody, body)
	}
	if t.IsZero() {
		return astro.Position{}, ErrZeroInstant
	}
	lon, speed, err := e.eph.LongitudeSpeed(t.UTC(), body, true)
	if err != nil {
		return astro.Position{}, fmt.Errorf("chart: %v at %s: %w", body, t.UTC().Format(time.RFC3339), err)
	}
	return astro.Position{Body: body, Longitude: lon, Speed: speed}, nil
}

// Transits returns the geocentric positions of the ten bodies at t.
func (e *Engine) Transits(t time.Time) (astro.Placement, error) {
	return e.positions(t, astro.Planets())
}

func (e *Engine) positions(t time.Time, bodies []astro.Body) (astro.Placement, error) {
	p := make(astro.Placement, len(bodies))
	for _, b := range bodies {
		pos, err := e.BodyPosition(t, b)
		if err != nil {
			return nil, err
		}
		p[b] = pos
	}
	return p, nil
}

// Natal computes the positions of the ten bodies and the house cusps for an
// instant and place. The result is a pure function of the arguments.
func (e *Engine) Natal(t time.Time, loc Location, sys astro.HouseSystem) (Chart, error) {
	placement, err := e.Transits(t)
	if err != nil {
		return Chart{}, err
	}
	cusps, angles, err := e.eph.Houses(t.UTC(), loc.Latitude, loc.Longitude, sys)
	if err != nil {
		return Chart{}, fmt.Errorf("chart: houses: %w", err)
	}
	return Chart{
		Instant:     t.UTC(),
		Location:    loc,
		HouseSystem: sys,
		Placement:   placement,
		Cusps:       cusps,
		Angles:      angles,
	}, nil
}
