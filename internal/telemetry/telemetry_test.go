package telemetry

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openLog(t *testing.T) (*Emitter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	em, err := NewEmitter(path)
	if err != nil {
		t.Fatalf("NewEmitter(%q): %v", path, err)
	}
	em.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	return em, path
}

func readLog(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var out []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var evt Event
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		out = append(out, evt)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestNewEmitterBadPath(t *testing.T) {
	t.Parallel()
	_, err := NewEmitter(filepath.Join(t.TempDir(), "missing", "events.jsonl"))
	if err == nil || !strings.Contains(err.Error(), "telemetry: open") {
		t.Fatalf("err = %v, want wrapped open error", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	t.Parallel()
	em, path := openLog(t)

	run := em.StartRun("run-1", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 2)
	run.SnapshotsDone(61)
	run.EventClosed("transits", "Saturn Square Sun", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	run.TierDone("transits", 1)
	run.Done(1)
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := readLog(t, path)
	var kinds []string
	for _, e := range events {
		kinds = append(kinds, e.Kind)
		if e.RunID != "run-1" {
			t.Errorf("%s: run = %q, want run-1", e.Kind, e.RunID)
		}
		if !e.Timestamp.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
			t.Errorf("%s: ts = %v", e.Kind, e.Timestamp)
		}
	}
	want := []string{KindRunStart, KindSnapshotDone, KindEventClosed, KindTierDone, KindRunDone}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	wantStart := map[string]any{"start": "2025-03-01", "months": float64(2)}
	if diff := cmp.Diff(wantStart, events[0].Data); diff != "" {
		t.Errorf("start data mismatch (-want +got):\n%s", diff)
	}
	wantClosed := map[string]any{"tier": "transits", "name": "Saturn Square Sun", "exact": "2025-03-15"}
	if diff := cmp.Diff(wantClosed, events[2].Data); diff != "" {
		t.Errorf("closed data mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelledRunHasNoData(t *testing.T) {
	t.Parallel()
	em, path := openLog(t)

	em.StartRun("run-2", time.Now(), 1).Cancelled()
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := readLog(t, path)
	if len(events) != 2 || events[1].Kind != KindRunCancelled || events[1].Data != nil {
		t.Fatalf("events = %+v", events)
	}
}

func TestChartEvents(t *testing.T) {
	t.Parallel()
	em, path := openLog(t)

	em.ChartSaved("c1", "Ada")
	em.ReturnFound("c1", "solar", time.Date(2025, 12, 10, 4, 30, 0, 0, time.FixedZone("CET", 3600)))
	em.ChartDeleted("c1", "Ada")
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := readLog(t, path)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for _, e := range events {
		if e.ChartID != "c1" || e.RunID != "" {
			t.Errorf("%s: chart=%q run=%q", e.Kind, e.ChartID, e.RunID)
		}
	}
	wantReturn := map[string]any{"kind": "solar", "exact": "2025-12-10T03:30:00Z"}
	if diff := cmp.Diff(wantReturn, events[1].Data); diff != "" {
		t.Errorf("return data mismatch (-want +got):\n%s", diff)
	}
	if events[2].Kind != KindChartDeleted {
		t.Errorf("last kind = %s", events[2].Kind)
	}
}

func TestEmitKeepsExplicitTimestamp(t *testing.T) {
	t.Parallel()
	em, path := openLog(t)

	at := time.Date(1990, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := em.Emit(Event{Timestamp: at, Kind: KindChartSaved}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := readLog(t, path)[0].Timestamp; !got.Equal(at) {
		t.Errorf("ts = %v, want %v", got, at)
	}
}

func TestWriteFailureIsKept(t *testing.T) {
	t.Parallel()
	em, _ := openLog(t)

	if err := em.f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	em.ChartSaved("c1", "Ada") // must not panic or block
	em.ChartSaved("c2", "Grace")

	err := em.Err()
	if err == nil || !strings.Contains(err.Error(), KindChartSaved) {
		t.Fatalf("Err() = %v, want the first write failure", err)
	}
	if cerr := em.Close(); cerr == nil || cerr.Error() != err.Error() {
		t.Errorf("Close() = %v, want %v", cerr, err)
	}
}

func TestNilEmitter(t *testing.T) {
	t.Parallel()
	var em *Emitter

	run := em.StartRun("r", time.Now(), 1)
	run.Done(0)
	em.ReturnFound("c", "lunar", time.Now())
	if err := em.Err(); err != nil {
		t.Errorf("Err: %v", err)
	}
	if err := em.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestConcurrentRuns(t *testing.T) {
	t.Parallel()
	em, path := openLog(t)

	const runs = 20
	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run := em.StartRun(strings.Repeat("r", i+1), time.Now(), 1)
			run.TierDone("transits", i)
			run.Done(i)
		}()
	}
	wg.Wait()
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	perRun := map[string]int{}
	for _, e := range readLog(t, path) {
		perRun[e.RunID]++
	}
	if len(perRun) != runs {
		t.Fatalf("saw %d runs, want %d", len(perRun), runs)
	}
	for id, n := range perRun {
		if n != 3 {
			t.Errorf("run %s: %d events, want 3", id, n)
		}
	}
}

func TestAppendsAcrossEmitters(t *testing.T) {
	t.Parallel()
	em, path := openLog(t)
	em.ChartSaved("c1", "Ada")
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	again, err := NewEmitter(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	again.ChartDeleted("c1", "Ada")
	if err := again.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if events := readLog(t, path); len(events) != 2 {
		t.Fatalf("got %d events after reopening, want 2", len(events))
	}
}
