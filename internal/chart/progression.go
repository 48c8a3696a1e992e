package chart

import (
	"time"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

const day = 24 * time.Hour

// ProgressionDays returns the whole number of calendar days between the UTC
// dates of birth and target. Time of day does not contribute. The result is
// negative when target precedes birth.
func ProgressionDays(birth, target time.Time) int {
	b := birth.UTC()
	t := target.UTC()
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	td := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(td.Sub(bd) / day)
}

// ProgressedInstant applies "a day for a year": birth shifted by one day per
// calendar day elapsed between birth and target.
func ProgressedInstant(birth, target time.Time) time.Time {
	return birth.UTC().Add(time.Duration(ProgressionDays(birth, target)) * day)
}

// SecondaryProgressions returns the transits at the progressed instant.
func (e *Engine) SecondaryProgressions(birth, target time.Time) (astro.Placement, error) {
	if birth.IsZero() || target.IsZero() {
		return nil, ErrZeroInstant
	}
	return e.Transits(ProgressedInstant(birth, target))
}

// SolarArc shifts every natal body by the arc the progressed Sun has
// travelled since birth. Speeds are carried over from the natal chart.
func (e *Engine) SolarArc(birth, target time.Time) (astro.Placement, error) {
	if birth.IsZero() || target.IsZero() {
		return nil, ErrZeroInstant
	}
	natal, err := e.Transits(birth)
	if err != nil {
		return nil, err
	}
	progSun, err := e.BodyPosition(ProgressedInstant(birth, target), astro.Sun)
	if err != nil {
		return nil, err
	}
	return ApplyArc(natal, SolarArcDegrees(natal[astro.Sun].Longitude, progSun.Longitude)), nil
}

// SolarArcDegrees returns (progressed - natal) mod 360.
func SolarArcDegrees(natalSun, progressedSun float64) float64 {
	return astro.Normalize(progressedSun - natalSun)
}

// ApplyArc returns a copy of natal with every longitude advanced by arc.
func ApplyArc(natal astro.Placement, arc float64) astro.Placement {
	out := make(astro.Placement, len(natal))
	for b, pos := range natal {
		pos.Longitude = astro.Normalize(pos.Longitude + arc)
		out[b] = pos
	}
	return out
}
