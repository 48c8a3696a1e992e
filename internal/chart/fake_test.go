package chart

import (
	"errors"
	"time"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

var errFakeEphemeris = errors.New("fake ephemeris failure")

// linearEphemeris moves every body at a constant rate from an epoch.
type linearEphemeris struct {
	epoch time.Time
	base  map[astro.Body]float64
	rate  map[astro.Body]float64
	cusps astro.HouseCusps
	fail  bool
	calls int
}

func (f *linearEphemeris) LongitudeSpeed(t time.Time, b astro.Body, withSpeed bool) (float64, float64, error) {
	f.calls++
	if f.fail {
		return 0, 0, errFakeEphemeris
	}
	if t.Location() != time.UTC {
		return 0, 0, errors.New("non-UTC instant reached the ephemeris")
	}
	days := t.Sub(f.epoch).Hours() / 24
	lon := astro.Normalize(f.base[b] + f.rate[b]*days)
	if !withSpeed {
		return lon, 0, nil
	}
	return lon, f.rate[b], nil
}

func (f *linearEphemeris) Houses(t time.Time, lat, lon float64, sys astro.HouseSystem) (astro.HouseCusps, astro.Angles, error) {
	if f.fail {
		return astro.HouseCusps{}, astro.Angles{}, errFakeEphemeris
	}
	return f.cusps, astro.Angles{Ascendant: f.cusps[0], Midheaven: f.cusps[9]}, nil
}

func newLinear(epoch time.Time) *linearEphemeris {
	f := &linearEphemeris{
		epoch: epoch,
		base:  make(map[astro.Body]float64),
		rate:  make(map[astro.Body]float64),
	}
	for i, b := range astro.Planets() {
		f.base[b] = float64(i) * 33
		f.rate[b] = 1 / float64(i+1)
	}
	for i := range f.cusps {
		f.cusps[i] = astro.Normalize(100 + 30*float64(i))
	}
	return f
}
