// Package telemetry appends a JSONL log of what the engine did: time-map
// runs and the aspect events they close, returns found, and chart records
// saved or removed. Each line is one Event.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds.
const (
	KindRunStart     = "timemap_start"
	KindSnapshotDone = "snapshot_done"
	KindEventClosed  = "event_closed"
	KindTierDone     = "tier_done"
	KindRunDone      = "timemap_done"
	KindRunCancelled = "timemap_cancelled"
	KindReturnFound  = "return_found"
	KindChartSaved   = "chart_saved"
	KindChartDeleted = "chart_deleted"
)

// Event is one log line. Run events carry RunID, chart events carry ChartID.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	ChartID   string    `json:"chart,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter appends events to a log file. The first write failure is kept and
// reported by Err and Close, so the helpers below never return one: a broken
// log must not fail a computation. A nil *Emitter discards everything.
type Emitter struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
	err error
	now func() time.Time
}

// NewEmitter opens the log at path for appending, creating it if needed.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{f: f, enc: json.NewEncoder(f), now: time.Now}, nil
}

// Emit writes evt, stamping it with the current time when Timestamp is zero.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		err = fmt.Errorf("telemetry: write %s: %w", evt.Kind, err)
		if e.err == nil {
			e.err = err
		}
		return err
	}
	return nil
}

// Err returns the first write failure, if any.
func (e *Emitter) Err() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Close closes the log and returns the first write failure, or the close
// error when every write succeeded.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.f.Close(); err != nil && e.err == nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return e.err
}

// ReturnFound records a solar or lunar return located for a chart.
func (e *Emitter) ReturnFound(chartID, kind string, exact time.Time) {
	_ = e.Emit(Event{Kind: KindReturnFound, ChartID: chartID, Data: map[string]any{
		"kind":  kind,
		"exact": exact.UTC().Format(time.RFC3339),
	}})
}

// ChartSaved records a chart record written to the store.
func (e *Emitter) ChartSaved(chartID, name string) {
	_ = e.Emit(Event{Kind: KindChartSaved, ChartID: chartID, Data: map[string]any{"name": name}})
}

// ChartDeleted records a chart record removed from the store.
func (e *Emitter) ChartDeleted(chartID, name string) {
	_ = e.Emit(Event{Kind: KindChartDeleted, ChartID: chartID, Data: map[string]any{"name": name}})
}

// Run tags the events of one time-map run with its ID.
type Run struct {
	ID string
	em *Emitter
}

// StartRun records the start of a time-map run over months from start.
func (e *Emitter) StartRun(id string, start time.Time, months int) Run {
	r := Run{ID: id, em: e}
	r.emit(KindRunStart, map[string]any{"start": start.Format(time.DateOnly), "months": months})
	return r
}

// SnapshotsDone records how many daily snapshots the run computed.
func (r Run) SnapshotsDone(days int) {
	r.emit(KindSnapshotDone, map[string]any{"days": days})
}

// EventClosed records one aspect event extracted from the snapshots.
func (r Run) EventClosed(tier, name string, exact time.Time) {
	r.emit(KindEventClosed, map[string]any{"tier": tier, "name": name, "exact": exact.Format(time.DateOnly)})
}

// TierDone records the number of events a tier produced.
func (r Run) TierDone(tier string, events int) {
	r.emit(KindTierDone, map[string]any{"tier": tier, "events": events})
}

// Done records a completed run.
func (r Run) Done(events int) {
	r.emit(KindRunDone, map[string]any{"events": events})
}

// Cancelled records a run abandoned because its context ended.
func (r Run) Cancelled() {
	r.emit(KindRunCancelled, nil)
}

func (r Run) emit(kind string, data map[string]any) {
	evt := Event{Kind: kind, RunID: r.ID}
	if data != nil {
		evt.Data = data
	}
	_ = r.em.Emit(evt)
}
