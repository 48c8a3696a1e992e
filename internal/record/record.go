// Package record is the flat, persisted form of a birth chart: the fields a
// user types in, plus the coordinates and timezone a geocoder resolved for
// the location. It converts a record into the UTC instant, position, and
// house system the engine works with.
package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// Sentinel errors for record validation.
var (
	// ErrMissingField indicates a required field is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrBadDate indicates birth_date is not YYYY-MM-DD.
	ErrBadDate = errors.New("birth_date must be YYYY-MM-DD")
	// ErrBadTime indicates birth_time is not HH:MM or disagrees with ampm.
	ErrBadTime = errors.New("birth_time must be HH:MM")
	// ErrBadAMPM indicates ampm is neither AM nor PM.
	ErrBadAMPM = errors.New("ampm must be AM or PM")
	// ErrBadCoordinate indicates latitude or longitude is out of range.
	ErrBadCoordinate = errors.New("coordinate out of range")
	// ErrBadTimezone indicates the timezone is not a known IANA name.
	ErrBadTimezone = errors.New("unknown timezone")
)

// ValidationError records a problem with one field of a record.
type ValidationError struct {
	Name  string // record name, for context
	Field string
	Err   error
}

// Error returns a human-readable string including the record and field.
func (e *ValidationError) Error() string {
	if e.Name != "" {
		return "chart " + e.Name + ": " + e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

// Unwrap returns the underlying sentinel for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Record is a saved birth chart. BirthTime is on a 12-hour clock when AMPM is
// set and on a 24-hour clock otherwise.
type Record struct {
	ID          string  `toml:"id" json:"id" yaml:"id"`
	Name        string  `toml:"name" json:"name" yaml:"name"`
	BirthDate   string  `toml:"birth_date" json:"birth_date" yaml:"birth_date"`
	BirthTime   string  `toml:"birth_time" json:"birth_time" yaml:"birth_time"`
	AMPM        string  `toml:"ampm,omitempty" json:"ampm,omitempty" yaml:"ampm,omitempty"`
	Location    string  `toml:"location,omitempty" json:"location,omitempty" yaml:"location,omitempty"`
	HouseSystem string  `toml:"house_system,omitempty" json:"house_system,omitempty" yaml:"house_system,omitempty"`
	Latitude    float64 `toml:"latitude" json:"latitude" yaml:"latitude"`
	Longitude   float64 `toml:"longitude" json:"longitude" yaml:"longitude"`
	Timezone    string  `toml:"timezone,omitempty" json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Birth is a record resolved for computation.
type Birth struct {
	Instant     time.Time // UTC
	Latitude    float64
	Longitude   float64
	HouseSystem astro.HouseSystem
}

// EnsureID assigns a fresh ID when the record has none.
func (r *Record) EnsureID() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
}

// Validate checks every field and returns all problems joined together.
// Each problem is a *ValidationError.
func (r Record) Validate() error {
	var errs []error
	bad := func(field string, err error) {
		errs = append(errs, &ValidationError{Name: r.Name, Field: field, Err: err})
	}

	if strings.TrimSpace(r.Name) == "" {
		bad("name", ErrMissingField)
	}
	if _, err := r.civil(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve)
		} else {
			bad("birth_time", err)
		}
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		bad("latitude", ErrBadCoordinate)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		bad("longitude", ErrBadCoordinate)
	}
	if _, err := r.location(); err != nil {
		bad("timezone", err)
	}
	if r.HouseSystem != "" {
		if _, err := astro.ParseHouseSystem(r.HouseSystem); err != nil {
			bad("house_system", err)
		}
	}
	return errors.Join(errs...)
}

// Resolve validates the record and localizes its date and time in Timezone,
// returning the UTC instant. fallback is used when HouseSystem is empty.
func (r Record) Resolve(fallback astro.HouseSystem) (Birth, error) {
	if err := r.Validate(); err != nil {
		return Birth{}, err
	}
	c, _ := r.civil()
	loc, _ := r.location()
	sys := fallback
	if r.HouseSystem != "" {
		sys, _ = astro.ParseHouseSystem(r.HouseSystem)
	}
	local := time.Date(c.year, c.month, c.day, c.hour, c.minute, 0, 0, loc)
	return Birth{
		Instant:     local.UTC(),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		HouseSystem: sys,
	}, nil
}

type civilTime struct {
	year         int
	month        time.Month
	day          int
	hour, minute int
}

func (r Record) civil() (civilTime, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(r.BirthDate))
	if err != nil {
		return civilTime{}, &ValidationError{Name: r.Name, Field: "birth_date", Err: ErrBadDate}
	}
	c := civilTime{year: d.Year(), month: d.Month(), day: d.Day()}

	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(r.BirthTime), "%d:%d", &h, &m); err != nil || m < 0 || m > 59 {
		return civilTime{}, &ValidationError{Name: r.Name, Field: "birth_time", Err: ErrBadTime}
	}
	switch strings.ToUpper(strings.TrimSpace(r.AMPM)) {
	case "":
		if h < 0 || h > 23 {
			return civilTime{}, &ValidationError{Name: r.Name, Field: "birth_time", Err: ErrBadTime}
		}
	case "AM", "PM":
		if h < 1 || h > 12 {
			return civilTime{}, &ValidationError{Name: r.Name, Field: "birth_time", Err: ErrBadTime}
		}
		h %= 12
		if strings.EqualFold(strings.TrimSpace(r.AMPM), "PM") {
			h += 12
		}
	default:
		return civilTime{}, &ValidationError{Name: r.Name, Field: "ampm", Err: ErrBadAMPM}
	}
	c.hour, c.minute = h, m
	return c, nil
}

func (r Record) location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimezone, r.Timezone)
	}
	return loc, nil
}

// FromInstant builds a record for an instant expressed in tz, using a
// 12-hour clock like records entered by hand.
func FromInstant(name string, t time.Time, tz string, lat, lon float64, sys astro.HouseSystem) (Record, error) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Record{}, fmt.Errorf("record: %w: %q", ErrBadTimezone, tz)
		}
		loc = l
	}
	local := t.In(loc)
	h := local.Hour() % 12
	if h == 0 {
		h = 12
	}
	ampm := "AM"
	if local.Hour() >= 12 {
		ampm = "PM"
	}
	r := Record{
		Name:      name,
		BirthDate: local.Format(time.DateOnly),
		BirthTime: fmt.Sprintf("%02d:%02d", h, local.Minute()),
		AMPM:      ampm,
		Latitude:  lat,
		Longitude: lon,
		Timezone:  tz,
	}
	if sys.Valid() {
		r.HouseSystem = sys.String()
	}
	return r, nil
}
