package chart

import (
	"fmt"
	"math"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// Phase is one of the eight 45-degree lunar phases.
type Phase int

// Lunar phases by Sun-Moon elongation.
const (
	NewMoon Phase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
)

var phaseNames = [...]string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

// String returns the phase name.
func (p Phase) String() string {
	if p < NewMoon || p > WaningCrescent {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// LunarPhase returns the phase and the elongation (moon - sun) mod 360.
func LunarPhase(sunLon, moonLon float64) (Phase, float64) {
	angle := astro.Normalize(moonLon - sunLon)
	return Phase(int(math.Floor(angle/45)) % 8), angle
}
