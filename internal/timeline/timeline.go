// Package timeline turns a natal chart and a date window into a list of
// aspect events for the time map.
//
// Processing runs in three phases. Phase 1 computes a daily snapshot of
// progressed-to-progressed and transit-to-natal aspects. Phase 2 sweeps each
// tier independently, opening an event when a pair first comes into orb and
// closing it on the first day it is absent. Phase 3 merges repeated passes of
// the same transit pair into one event that carries every exact date.
//
// A month is treated as exactly 30 days throughout. The window is not
// calendar-accurate and callers must accept that simplification.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/papapumpkin/timecrisis/internal/aspect"
	"github.com/papapumpkin/timecrisis/internal/astro"
)

// DaysPerMonth is the fixed month length used for windowing.
const DaysPerMonth = 30

const day = 24 * time.Hour

// Sentinel errors for window validation.
var (
	ErrNoMonths    = errors.New("timeline: window must span at least one month")
	ErrZeroStart   = errors.New("timeline: zero start date")
	ErrNoNatal     = errors.New("timeline: natal chart has no placements")
	ErrUnknownTier = errors.New("timeline: unknown tier")
)

// Tier groups events by technique.
type Tier int

// Tiers in display order.
const (
	LunarProgression Tier = iota // progressed pairs involving the Moon
	OtherProgression             // progressed pairs without the Moon
	Transit                      // transiting body to natal body
)

var tierNames = [...]string{
	LunarProgression: "lunar_prog",
	OtherProgression: "other_prog",
	Transit:          "transits",
}

// Tiers returns every tier in display order.
func Tiers() []Tier {
	return []Tier{LunarProgression, OtherProgression, Transit}
}

// String returns the tier key used in output and telemetry.
func (t Tier) String() string {
	if t < LunarProgression || t > Transit {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// MarshalText encodes the tier by key.
func (t Tier) MarshalText() ([]byte, error) {
	if t < LunarProgression || t > Transit {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return []byte(tierNames[t]), nil
}

// UnmarshalText decodes a tier key.
func (t *Tier) UnmarshalText(text []byte) error {
	for i, n := range tierNames {
		if n == string(text) {
			*t = Tier(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTier, text)
}

// Options controls the orbs and bodies used for a run.
type Options struct {
	ProgressionOrb float64
	TransitOrb     float64
	TransitBodies  []astro.Body
	Kinds          []aspect.Kind
}

// DefaultOptions returns a 1° progression orb, a 2° transit orb, the five
// outer planets as transiting bodies, and the major aspects.
func DefaultOptions() Options {
	return Options{
		ProgressionOrb: 1.0,
		TransitOrb:     2.0,
		TransitBodies:  astro.OuterPlanets(),
		Kinds:          aspect.MajorKinds(),
	}
}

// Reading is one day's observation of an in-orb pair. Longitude is the P1
// body's longitude that day: the transiting body for transits, the first
// progressed body otherwise.
type Reading struct {
	Date      time.Time `json:"date" yaml:"date"`
	Orb       float64   `json:"orb" yaml:"orb"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
}

// Event is a continuous interval during which a pair stayed within orb.
// End is the first day the pair was absent. Exact is the date of the
// smallest orb; ExactDates lists the exact date of every merged pass.
type Event struct {
	Name           string        `json:"name" yaml:"name"`
	Tier           Tier          `json:"tier" yaml:"tier"`
	Aspect         aspect.Aspect `json:"-" yaml:"-"`
	Start          time.Time     `json:"start" yaml:"start"`
	End            time.Time     `json:"end" yaml:"end"`
	Exact          time.Time     `json:"exact" yaml:"exact"`
	ExactDates     []time.Time   `json:"exact_dates" yaml:"exact_dates"`
	ExactOrb       float64       `json:"exact_orb" yaml:"exact_orb"`
	ExactLongitude float64       `json:"exact_longitude" yaml:"exact_longitude"`
	Readings       []Reading     `json:"readings" yaml:"readings"`
	Ongoing        bool          `json:"ongoing,omitempty" yaml:"ongoing,omitempty"`

	// Houses are set for transits only: where the transiting body stood at
	// the exact pass, where the natal body sits, and the natal houses each
	// of the two bodies rules.
	TransitHouse int   `json:"transit_house,omitempty" yaml:"transit_house,omitempty"`
	NatalHouse   int   `json:"natal_house,omitempty" yaml:"natal_house,omitempty"`
	TransitRules []int `json:"transit_rules,omitempty" yaml:"transit_rules,omitempty"`
	NatalRules   []int `json:"natal_rules,omitempty" yaml:"natal_rules,omitempty"`
}

// Duration returns the length of the event's interval.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Contains reports whether date falls inside [Start, End).
func (e Event) Contains(date time.Time) bool {
	return !date.Before(e.Start) && date.Before(e.End)
}
