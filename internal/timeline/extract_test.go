package timeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/timecrisis/internal/aspect"
	"github.com/papapumpkin/timecrisis/internal/astro"
)

var base = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

// dayN returns the nth day of a synthetic window, counting from 1.
func dayN(n int) time.Time {
	return base.AddDate(0, 0, n-1)
}

// series builds n empty snapshots starting at day 1.
func series(n int) []Snapshot {
	out := make([]Snapshot, n)
	for i := range out {
		out[i].Date = dayN(i + 1)
	}
	return out
}

// put records pair at orb on day n (1-based) in tier.
func put(snaps []Snapshot, tier Tier, n int, pair aspect.Pair, orb float64) {
	s := &snaps[n-1]
	s.Aspects[tier] = append(s.Aspects[tier], aspect.Aspect{Pair: pair, Orb: orb})
}

var (
	marsSquareSun    = aspect.Pair{P1: astro.Mars, Kind: aspect.Square, P2: astro.Sun}
	moonTrineVenus   = aspect.Pair{P1: astro.Moon, Kind: aspect.Trine, P2: astro.Venus}
	saturnSquareSun  = aspect.Pair{P1: astro.Saturn, Kind: aspect.Square, P2: astro.Sun}
	plutoOppositeSun = aspect.Pair{P1: astro.Pluto, Kind: aspect.Opposition, P2: astro.Sun}
)

func TestExtractSingleEvent(t *testing.T) {
	t.Parallel()

	snaps := series(10)
	orbs := map[int]float64{3: 0.8, 4: 0.3, 5: 0.1, 6: 0.6}
	for n, orb := range orbs {
		put(snaps, OtherProgression, n, marsSquareSun, orb)
	}

	events := Extract(OtherProgression, snaps)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	e := events[0]
	if !e.Start.Equal(dayN(3)) {
		t.Errorf("Start = %v, want day 3", e.Start)
	}
	if !e.End.Equal(dayN(7)) {
		t.Errorf("End = %v, want day 7 (first absent day)", e.End)
	}
	if !e.Exact.Equal(dayN(5)) || e.ExactOrb != 0.1 {
		t.Errorf("Exact = %v orb %v, want day 5 orb 0.1", e.Exact, e.ExactOrb)
	}
	if e.Name != "Mars Square Sun" || e.Tier != OtherProgression || e.Ongoing {
		t.Errorf("event = %q %v ongoing=%v", e.Name, e.Tier, e.Ongoing)
	}

	wantOrbs := []float64{0.8, 0.3, 0.1, 0.6}
	var gotOrbs []float64
	for _, r := range e.Readings {
		gotOrbs = append(gotOrbs, r.Orb)
	}
	if diff := cmp.Diff(wantOrbs, gotOrbs); diff != "" {
		t.Errorf("readings mismatch (-want +got):\n%s", diff)
	}

	if got := Extract(LunarProgression, snaps); len(got) != 0 {
		t.Errorf("other tier leaked %d events", len(got))
	}
}

func TestExtractExactTiesKeepFirst(t *testing.T) {
	t.Parallel()

	snaps := series(6)
	for n, orb := range map[int]float64{2: 0.5, 3: 0.2, 4: 0.2, 5: 0.4} {
		put(snaps, LunarProgression, n, moonTrineVenus, orb)
	}
	events := Extract(LunarProgression, snaps)
	if len(events) != 1 || !events[0].Exact.Equal(dayN(3)) {
		t.Fatalf("events = %+v, want one event exact on day 3", events)
	}
}

func TestExtractOngoingAtWindowEnd(t *testing.T) {
	t.Parallel()

	snaps := series(5)
	put(snaps, Transit, 4, plutoOppositeSun, 1.5)
	put(snaps, Transit, 5, plutoOppositeSun, 1.2)

	events := Extract(Transit, snaps)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if !e.Ongoing {
		t.Error("event still in orb on the last day should be Ongoing")
	}
	if !e.End.Equal(dayN(6)) {
		t.Errorf("End = %v, want the day after the last snapshot", e.End)
	}
}

func TestExtractReopensAfterGap(t *testing.T) {
	t.Parallel()

	snaps := series(8)
	put(snaps, OtherProgression, 2, marsSquareSun, 0.9)
	put(snaps, OtherProgression, 3, marsSquareSun, 0.7)
	put(snaps, OtherProgression, 6, marsSquareSun, 0.4)

	events := MergeTransits(Extract(OtherProgression, snaps))
	if len(events) != 2 {
		t.Fatalf("progression passes must not merge: got %d events", len(events))
	}
	if !events[0].End.Equal(dayN(4)) || !events[1].Start.Equal(dayN(6)) || !events[1].End.Equal(dayN(7)) {
		t.Errorf("intervals = [%v,%v) [%v,%v)", events[0].Start, events[0].End, events[1].Start, events[1].End)
	}
}

func TestExtractOrdersByStartThenName(t *testing.T) {
	t.Parallel()

	snaps := series(4)
	put(snaps, Transit, 2, saturnSquareSun, 1)
	put(snaps, Transit, 2, plutoOppositeSun, 1)
	put(snaps, Transit, 1, aspect.Pair{P1: astro.Uranus, Kind: aspect.Trine, P2: astro.Moon}, 1)

	var got []string
	for _, e := range Extract(Transit, snaps) {
		got = append(got, e.Name)
	}
	want := []string{"Uranus Trine Moon", "Pluto Opposition Sun", "Saturn Square Sun"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeTransitsMultiPass(t *testing.T) {
	t.Parallel()

	snaps := series(90)
	for n, orb := range map[int]float64{1: 1.2, 2: 0.4, 3: 1.1} {
		put(snaps, Transit, n, saturnSquareSun, orb)
	}
	for n, orb := range map[int]float64{40: 0.9, 41: 0.05, 42: 1.7} {
		put(snaps, Transit, n, saturnSquareSun, orb)
	}
	put(snaps, OtherProgression, 10, marsSquareSun, 0.2)

	raw := Extract(Transit, snaps)
	if len(raw) != 2 {
		t.Fatalf("got %d passes before merge, want 2", len(raw))
	}

	merged := MergeTransits(append(raw, Extract(OtherProgression, snaps)...))
	if len(merged) != 2 {
		t.Fatalf("got %d events after merge, want 2", len(merged))
	}

	var e Event
	for _, m := range merged {
		if m.Tier == Transit {
			e = m
		}
	}
	if e.Name != "Saturn Square Sun" {
		t.Fatalf("merged transit missing: %+v", merged)
	}
	if diff := cmp.Diff([]time.Time{dayN(2), dayN(41)}, e.ExactDates); diff != "" {
		t.Errorf("ExactDates mismatch (-want +got):\n%s", diff)
	}
	if !e.Start.Equal(dayN(1)) || !e.End.Equal(dayN(43)) {
		t.Errorf("span = [%v, %v), want [day 1, day 43)", e.Start, e.End)
	}
	if !e.Exact.Equal(dayN(41)) || e.ExactOrb != 0.05 {
		t.Errorf("Exact = %v orb %v, want day 41 orb 0.05", e.Exact, e.ExactOrb)
	}
	if len(e.Readings) != 6 {
		t.Errorf("got %d readings, want 6", len(e.Readings))
	}
}

func TestExtractEmpty(t *testing.T) {
	t.Parallel()
	if got := Extract(Transit, nil); len(got) != 0 {
		t.Errorf("Extract(nil) = %v", got)
	}
	if got := MergeTransits(nil); len(got) != 0 {
		t.Errorf("MergeTransits(nil) = %v", got)
	}
}
