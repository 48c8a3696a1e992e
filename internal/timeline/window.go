package timeline

import "time"

// Window is a run of whole days starting at Start and spanning Months
// 30-day months.
type Window struct {
	Start  time.Time `json:"start" yaml:"start"`
	Months int       `json:"months" yaml:"months"`
}

// NewWindow truncates start to its UTC calendar date.
func NewWindow(start time.Time, months int) (Window, error) {
	if start.IsZero() {
		return Window{}, ErrZeroStart
	}
	if months < 1 {
		return Window{}, ErrNoMonths
	}
	return Window{Start: dateOf(start), Months: months}, nil
}

// End returns the first day after the window.
func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, w.Months*DaysPerMonth)
}

// Days returns the days processed for the window: one pad day before Start
// through End inclusive, so events that begin or end on a boundary are seen.
func (w Window) Days() []time.Time {
	n := w.Months*DaysPerMonth + 2
	out := make([]time.Time, n)
	for i := range out {
		out[i] = w.Start.AddDate(0, 0, i-1)
	}
	return out
}

// Month is one 30-day block of the time map header.
type Month struct {
	Label string    `json:"label" yaml:"label"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Months splits the n months after start into 30-day blocks labelled with
// the calendar month each block begins in.
func Months(start time.Time, n int) []Month {
	s := dateOf(start)
	out := make([]Month, 0, max(n, 0))
	for i := range n {
		b := s.AddDate(0, 0, i*DaysPerMonth)
		out = append(out, Month{
			Label: b.Format("Jan 2006"),
			Start: b,
			End:   b.AddDate(0, 0, DaysPerMonth),
		})
	}
	return out
}

func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
