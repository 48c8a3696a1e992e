package chart

import (
	"math"
	"time"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

const (
	// returnIterations is the fixed number of refinement steps. There is no
	// convergence test; the estimate after the last step is returned.
	returnIterations = 5
	// stationarySpeed is the speed, in degrees/day, below which refinement
	// stops and the current estimate is accepted.
	stationarySpeed = 1e-9
)

// Return is a return chart together with the instant the body reached its
// natal longitude.
type Return struct {
	Chart
	Exact time.Time `json:"exact" yaml:"exact"`
}

// FindReturn locates the instant near start at which body reaches target
// longitude, using Newton steps of (target-current)/speed days. It runs a
// fixed number of iterations and never reports non-convergence; the result is
// close enough for chart purposes, not to the second.
func (e *Engine) FindReturn(target float64, body astro.Body, start time.Time) (time.Time, error) {
	if start.IsZero() {
		return time.Time{}, ErrZeroInstant
	}
	t := start.UTC()
	for range returnIterations {
		pos, err := e.BodyPosition(t, body)
		if err != nil {
			return time.Time{}, err
		}
		if math.Abs(pos.Speed) < stationarySpeed {
			break
		}
		days := astro.SignedDelta(target, pos.Longitude) / pos.Speed
		t = t.Add(time.Duration(days * float64(day)))
	}
	return t, nil
}

// SolarReturn computes the chart for the moment in year when the Sun returns
// to its natal longitude. The search starts at the birthday, 00:00 UTC.
func (e *Engine) SolarReturn(birth time.Time, year int, loc Location, sys astro.HouseSystem) (Return, error) {
	if birth.IsZero() {
		return Return{}, ErrZeroInstant
	}
	b := birth.UTC()
	seed := time.Date(year, b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return e.bodyReturn(astro.Sun, b, seed, loc, sys)
}

// LunarReturn computes the chart for the Moon's return to its natal longitude
// nearest searchStart. The Moon returns roughly monthly, so the caller seeds
// the search inside the month of interest.
func (e *Engine) LunarReturn(birth, searchStart time.Time, loc Location, sys astro.HouseSystem) (Return, error) {
	if birth.IsZero() || searchStart.IsZero() {
		return Return{}, ErrZeroInstant
	}
	return e.bodyReturn(astro.Moon, birth.UTC(), searchStart.UTC(), loc, sys)
}

func (e *Engine) bodyReturn(body astro.Body, birth, seed time.Time, loc Location, sys astro.HouseSystem) (Return, error) {
	natal, err := e.BodyPosition(birth, body)
	if err != nil {
		return Return{}, err
	}
	exact, err := e.FindReturn(natal.Longitude, body, seed)
	if err != nil {
		return Return{}, err
	}
	c, err := e.Natal(exact, loc, sys)
	if err != nil {
		return Return{}, err
	}
	return Return{Chart: c, Exact: exact}, nil
}
