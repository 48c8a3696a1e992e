package timeline

import (
	"sort"
	"time"

	"github.com/papapumpkin/timecrisis/internal/aspect"
	"github.com/papapumpkin/timecrisis/internal/astro"
)

// tracker is the in-progress state of one pair while it stays in orb.
type tracker struct {
	tier     Tier
	pair     aspect.Pair
	start    time.Time
	readings []Reading
	best     int // index of the first minimum-orb reading
}

func (tr *tracker) add(r Reading) {
	tr.readings = append(tr.readings, r)
	if r.Orb < tr.readings[tr.best].Orb {
		tr.best = len(tr.readings) - 1
	}
}

func (tr *tracker) close(end time.Time, ongoing bool) Event {
	exact := tr.readings[tr.best]
	return Event{
		Name:           tr.pair.Name(),
		Tier:           tr.tier,
		Aspect:         aspect.Aspect{Pair: tr.pair, Orb: exact.Orb},
		Start:          tr.start,
		End:            end,
		Exact:          exact.Date,
		ExactDates:     []time.Time{exact.Date},
		ExactOrb:       exact.Orb,
		ExactLongitude: exact.Longitude,
		Readings:       tr.readings,
		Ongoing:        ongoing,
	}
}

// Extract sweeps the snapshots in date order and returns the events of one
// tier. A pair opens on the first day it appears and closes on the first day
// it is absent, which becomes its End. Pairs still in orb on the last
// snapshot are closed the day after it and marked Ongoing.
func Extract(tier Tier, snaps []Snapshot) []Event {
	active := make(map[aspect.Pair]*tracker)
	var out []Event

	for _, s := range snaps {
		today := make(map[aspect.Pair]bool, len(s.Aspects[tier]))
		for _, a := range s.Aspects[tier] {
			today[a.Pair] = true
		}
		for _, p := range sortedPairs(active) {
			if !today[p] {
				out = append(out, active[p].close(s.Date, false))
				delete(active, p)
			}
		}
		for _, a := range s.Aspects[tier] {
			tr, ok := active[a.Pair]
			if !ok {
				tr = &tracker{tier: tier, pair: a.Pair, start: s.Date}
				active[a.Pair] = tr
			}
			tr.add(Reading{Date: s.Date, Orb: a.Orb, Longitude: readingLongitude(s, tier, a.P1)})
		}
	}

	if len(snaps) > 0 {
		end := snaps[len(snaps)-1].Date.AddDate(0, 0, 1)
		for _, p := range sortedPairs(active) {
			out = append(out, active[p].close(end, true))
		}
	}
	SortEvents(out)
	return out
}

func readingLongitude(s Snapshot, tier Tier, b astro.Body) float64 {
	src := s.Progressed
	if tier == Transit {
		src = s.Transiting
	}
	lon, _ := src.Longitude(b)
	return lon
}

// MergeTransits folds repeated passes of the same transit pair into a single
// event. The merged event spans the earliest start to the latest end, takes
// the reading with the smallest orb across all passes as its exact point, and
// lists each pass's exact date in order. Events of other tiers pass through
// unchanged.
func MergeTransits(events []Event) []Event {
	var out []Event
	byPair := make(map[aspect.Pair][]Event)
	var order []aspect.Pair
	for _, e := range events {
		if e.Tier != Transit {
			out = append(out, e)
			continue
		}
		if _, ok := byPair[e.Aspect.Pair]; !ok {
			order = append(order, e.Aspect.Pair)
		}
		byPair[e.Aspect.Pair] = append(byPair[e.Aspect.Pair], e)
	}
	for _, p := range order {
		out = append(out, mergePasses(byPair[p]))
	}
	SortEvents(out)
	return out
}

func mergePasses(passes []Event) Event {
	if len(passes) == 1 {
		return passes[0]
	}
	sort.SliceStable(passes, func(i, j int) bool { return passes[i].Start.Before(passes[j].Start) })

	m := passes[0]
	m.ExactDates = nil
	m.Readings = nil
	for _, p := range passes {
		if p.End.After(m.End) {
			m.End = p.End
		}
		if p.ExactOrb < m.ExactOrb {
			m.Exact = p.Exact
			m.ExactOrb = p.ExactOrb
			m.ExactLongitude = p.ExactLongitude
			m.Aspect = p.Aspect
		}
		m.Ongoing = m.Ongoing || p.Ongoing
		m.ExactDates = append(m.ExactDates, p.ExactDates...)
		m.Readings = append(m.Readings, p.Readings...)
	}
	sort.Slice(m.ExactDates, func(i, j int) bool { return m.ExactDates[i].Before(m.ExactDates[j]) })
	return m
}

// SortEvents orders events by start date, then tier, then name.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		return a.Name < b.Name
	})
}

func sortedPairs(m map[aspect.Pair]*tracker) []aspect.Pair {
	out := make([]aspect.Pair, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
