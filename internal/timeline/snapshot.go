package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/papapumpkin/timecrisis/internal/aspect"
	"github.com/papapumpkin/timecrisis/internal/astro"
)

// Positioner supplies the positions a run needs. *chart.Engine satisfies it.
type Positioner interface {
	Transits(t time.Time) (astro.Placement, error)
	SecondaryProgressions(birth, target time.Time) (astro.Placement, error)
}

// Snapshot is the set of in-orb aspects on one day, split by tier.
type Snapshot struct {
	Date       time.Time
	Progressed astro.Placement
	Transiting astro.Placement
	Aspects    [len(tierNames)][]aspect.Aspect
}

// Snap computes the snapshot for one day. Progressed pairs are split on
// whether they involve the Moon; transits compare the configured transiting
// bodies with the natal placement.
func Snap(pos Positioner, opts Options, birth time.Time, natal astro.Placement, date time.Time) (Snapshot, error) {
	prog, err := pos.SecondaryProgressions(birth, date)
	if err != nil {
		return Snapshot{}, fmt.Errorf("timeline: progressions for %s: %w", date.Format(time.DateOnly), err)
	}
	tr, err := pos.Transits(date)
	if err != nil {
		return Snapshot{}, fmt.Errorf("timeline: transits for %s: %w", date.Format(time.DateOnly), err)
	}

	s := Snapshot{Date: date, Progressed: prog, Transiting: tr}
	for _, a := range aspect.Within(prog, opts.ProgressionOrb, opts.Kinds) {
		if a.P1 == astro.Moon || a.P2 == astro.Moon {
			s.Aspects[LunarProgression] = append(s.Aspects[LunarProgression], a)
		} else {
			s.Aspects[OtherProgression] = append(s.Aspects[OtherProgression], a)
		}
	}
	s.Aspects[Transit] = aspect.Cross(tr.Subset(opts.TransitBodies...), natal, opts.TransitOrb, opts.Kinds)
	return s, nil
}

// Snapshots computes one snapshot per day of the window, stopping between
// days if ctx is cancelled.
func Snapshots(ctx context.Context, pos Positioner, opts Options, birth time.Time, natal astro.Placement, w Window) ([]Snapshot, error) {
	days := w.Days()
	out := make([]Snapshot, 0, len(days))
	for _, d := range days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := Snap(pos, opts, birth, natal, d)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
