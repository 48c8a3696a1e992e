package ephemeris

import (
	"math"
	"testing"
	"time"
)

func TestJulianDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want float64
	}{
		{"J2000 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"Sputnik launch", time.Date(1957, 10, 4, 19, 26, 24, 0, time.UTC), 2436116.31},
		{"zone ignored", time.Date(2000, 1, 1, 7, 0, 0, 0, time.FixedZone("EST", -5*3600)), 2451545.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := JulianDay(tt.in); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("JulianDay(%v) = %.6f, want %.6f", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeFromJulianRoundTrip(t *testing.T) {
	t.Parallel()

	in := time.Date(1989, 5, 15, 7, 30, 15, 250*int(time.Millisecond), time.UTC)
	got := TimeFromJulian(JulianDay(in))
	if d := got.Sub(in); d < -time.Millisecond || d > time.Millisecond {
		t.Errorf("round trip drifted by %v: got %v, want %v", d, got, in)
	}
	if got.Location() != time.UTC {
		t.Errorf("TimeFromJulian location = %v, want UTC", got.Location())
	}
}

func TestCalendarFields(t *testing.T) {
	t.Parallel()

	jd := JulianDayUTC(2025, 9, 28, 5, 7, 30.5)
	y, m, d, h, mi, s := CalendarFromJulian(jd)
	if y != 2025 || m != 9 || d != 28 || h != 5 || mi != 7 {
		t.Fatalf("CalendarFromJulian = %d-%d-%d %d:%d, want 2025-9-28 5:7", y, m, d, h, mi)
	}
	if math.Abs(s-30.5) > 0.002 {
		t.Errorf("seconds = %v, want 30.5", s)
	}
}

func TestDeltaT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year     int
		min, max float64
	}{
		{1900, -4, 0},
		{1950, 28, 31},
		{2000, 63, 65},
		{2020, 68, 75},
	}
	for _, tt := range tests {
		jd := JulianDay(time.Date(tt.year, 1, 1, 0, 0, 0, 0, time.UTC))
		if got := deltaT(jd); got < tt.min || got > tt.max {
			t.Errorf("deltaT(%d) = %.2f, want in [%v, %v]", tt.year, got, tt.min, tt.max)
		}
	}
}
