package timeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/papapumpkin/timecrisis/internal/chart"
	"github.com/papapumpkin/timecrisis/internal/telemetry"
)

// Result is the output of one run.
type Result struct {
	RunID  string  `json:"run_id" yaml:"run_id"`
	Window Window  `json:"window" yaml:"window"`
	Months []Month `json:"months" yaml:"months"`
	Events []Event `json:"events" yaml:"events"`
}

// Processor runs the three phases for a natal chart. It keeps no state
// between runs; a run is recomputed in full whenever its inputs change.
type Processor struct {
	pos     Positioner
	opts    Options
	emitter *telemetry.Emitter
}

// NewProcessor returns a processor. A nil emitter disables telemetry.
func NewProcessor(pos Positioner, opts Options, emitter *telemetry.Emitter) *Processor {
	return &Processor{pos: pos, opts: opts, emitter: emitter}
}

// Run computes the events for natal over w. Ephemeris failures abort the run
// and are returned unchanged apart from wrapping. Cancelling ctx stops the
// run between days and returns ctx.Err().
func (p *Processor) Run(ctx context.Context, natal chart.Chart, w Window) (Result, error) {
	if natal.Instant.IsZero() {
		return Result{}, chart.ErrZeroInstant
	}
	if len(natal.Placement) == 0 {
		return Result{}, ErrNoNatal
	}
	if w.Months < 1 {
		return Result{}, ErrNoMonths
	}

	// Telemetry failures never fail a run; the emitter keeps them.
	run := p.emitter.StartRun(uuid.NewString(), w.Start, w.Months)

	snaps, err := Snapshots(ctx, p.pos, p.opts, natal.Instant, natal.Placement, w)
	if err != nil {
		if ctx.Err() != nil {
			run.Cancelled()
		}
		return Result{}, err
	}
	run.SnapshotsDone(len(snaps))

	var events []Event
	for _, tier := range Tiers() {
		tierEvents := Extract(tier, snaps)
		if tier == Transit {
			tierEvents = MergeTransits(tierEvents)
			annotateHouses(tierEvents, natal)
		}
		for _, e := range tierEvents {
			run.EventClosed(e.Tier.String(), e.Name, e.Exact)
		}
		run.TierDone(tier.String(), len(tierEvents))
		events = append(events, tierEvents...)
	}
	SortEvents(events)

	run.Done(len(events))
	return Result{
		RunID:  run.ID,
		Window: w,
		Months: Months(w.Start, w.Months),
		Events: events,
	}, nil
}

func annotateHouses(events []Event, natal chart.Chart) {
	for i := range events {
		e := &events[i]
		e.TransitHouse = chart.HouseOf(e.ExactLongitude, natal.Cusps)
		if lon, ok := natal.Placement.Longitude(e.Aspect.P2); ok {
			e.NatalHouse = chart.HouseOf(lon, natal.Cusps)
		}
		e.TransitRules = chart.RuledHouses(e.Aspect.P1, natal.Cusps)
		e.NatalRules = chart.RuledHouses(e.Aspect.P2, natal.Cusps)
	}
}
