package chart

import (
	"math"
	"testing"
	"time"

	"github.com/papapumpkin/timecrisis/internal/astro"
	"github.com/papapumpkin/timecrisis/internal/ephemeris"
)

func TestFindReturnSolar(t *testing.T) {
	t.Parallel()
	e := NewEngine(ephemeris.New())

	natalSun := 54.3
	start := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 350)

	exact, err := e.FindReturn(natalSun, astro.Sun, start)
	if err != nil {
		t.Fatalf("FindReturn: %v", err)
	}
	if exact.Year() != start.Year() {
		t.Errorf("return year = %d, want %d", exact.Year(), start.Year())
	}
	pos, err := e.BodyPosition(exact, astro.Sun)
	if err != nil {
		t.Fatalf("BodyPosition: %v", err)
	}
	if d := math.Abs(astro.SignedDelta(natalSun, pos.Longitude)); d > 0.01 {
		t.Errorf("Sun at return = %.4f, off by %.4f°", pos.Longitude, d)
	}
}

func TestSolarReturn(t *testing.T) {
	t.Parallel()
	e := NewEngine(ephemeris.New())
	loc := Location{Latitude: 41.87, Longitude: -71.38}

	natal, err := e.BodyPosition(birth, astro.Sun)
	if err != nil {
		t.Fatalf("BodyPosition: %v", err)
	}
	ret, err := e.SolarReturn(birth, 2024, loc, astro.Placidus)
	if err != nil {
		t.Fatalf("SolarReturn: %v", err)
	}
	if ret.Exact.Year() != 2024 || ret.Exact.Month() != time.May {
		t.Errorf("Exact = %v, want May 2024", ret.Exact)
	}
	if !ret.Instant.Equal(ret.Exact) {
		t.Errorf("chart instant %v differs from exact %v", ret.Instant, ret.Exact)
	}
	if d := math.Abs(astro.SignedDelta(natal.Longitude, ret.Placement[astro.Sun].Longitude)); d > 0.01 {
		t.Errorf("return Sun off by %.4f°", d)
	}
	if ret.Location != loc || ret.HouseSystem != astro.Placidus {
		t.Errorf("return chart location/system = %v/%v", ret.Location, ret.HouseSystem)
	}
}

func TestLunarReturn(t *testing.T) {
	t.Parallel()
	e := NewEngine(ephemeris.New())
	seed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	natal, err := e.BodyPosition(birth, astro.Moon)
	if err != nil {
		t.Fatalf("BodyPosition: %v", err)
	}
	ret, err := e.LunarReturn(birth, seed, Location{}, astro.WholeSign)
	if err != nil {
		t.Fatalf("LunarReturn: %v", err)
	}
	if gap := ret.Exact.Sub(seed); gap < -16*day || gap > 16*day {
		t.Errorf("Exact = %v, more than half a month from seed", ret.Exact)
	}
	if d := math.Abs(astro.SignedDelta(natal.Longitude, ret.Placement[astro.Moon].Longitude)); d > 0.01 {
		t.Errorf("return Moon off by %.4f°", d)
	}
}

func TestFindReturnFixedIterations(t *testing.T) {
	t.Parallel()

	eph := newLinear(birth)
	e := NewEngine(eph)
	if _, err := e.FindReturn(10, astro.Mars, birth.AddDate(0, 0, 40)); err != nil {
		t.Fatalf("FindReturn: %v", err)
	}
	if eph.calls != returnIterations {
		t.Errorf("ephemeris calls = %d, want %d", eph.calls, returnIterations)
	}
}

func TestFindReturnStationary(t *testing.T) {
	t.Parallel()

	eph := newLinear(birth)
	eph.rate[astro.Saturn] = 0
	e := NewEngine(eph)
	start := birth.AddDate(1, 0, 0)

	got, err := e.FindReturn(200, astro.Saturn, start)
	if err != nil {
		t.Fatalf("FindReturn: %v", err)
	}
	if !got.Equal(start) {
		t.Errorf("stationary body moved estimate to %v", got)
	}
	if eph.calls != 1 {
		t.Errorf("ephemeris calls = %d, want 1", eph.calls)
	}
}

func TestReturnsRejectZeroInstant(t *testing.T) {
	t.Parallel()
	e := NewEngine(newLinear(birth))

	if _, err := e.FindReturn(0, astro.Sun, time.Time{}); err != ErrZeroInstant {
		t.Errorf("FindReturn: err = %v, want ErrZeroInstant", err)
	}
	if _, err := e.SolarReturn(time.Time{}, 2024, Location{}, astro.Placidus); err != ErrZeroInstant {
		t.Errorf("SolarReturn: err = %v, want ErrZeroInstant", err)
	}
	if _, err := e.LunarReturn(birth, time.Time{}, Location{}, astro.Placidus); err != ErrZeroInstant {
		t.Errorf("LunarReturn: err = %v, want ErrZeroInstant", err)
	}
}
