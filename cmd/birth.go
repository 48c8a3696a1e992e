package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/papapumpkin/timecrisis/internal/astro"
	"github.com/papapumpkin/timecrisis/internal/chart"
	"github.com/papapumpkin/timecrisis/internal/config"
	"github.com/papapumpkin/timecrisis/internal/ephemeris"
	"github.com/papapumpkin/timecrisis/internal/record"
	"github.com/papapumpkin/timecrisis/internal/store"
	"github.com/papapumpkin/timecrisis/internal/telemetry"
	"github.com/papapumpkin/timecrisis/internal/ui"
)

var errNoBirthData = errors.New("birth data required: use --chart, --file, or --date")

// session bundles what every computing command needs.
type session struct {
	cfg     config.Config
	engine  *chart.Engine
	printer *ui.Printer
	emitter *telemetry.Emitter
}

func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:     cfg,
		engine:  chart.NewEngine(ephemeris.New()),
		printer: ui.New(),
	}
	if cfg.Telemetry.Path != "" {
		em, err := telemetry.NewEmitter(cfg.Telemetry.Path)
		if err != nil {
			return nil, err
		}
		s.emitter = em
	}
	return s, nil
}

// Close releases the telemetry file, if any.
func (s *session) Close() {
	if err := s.emitter.Close(); err != nil {
		s.printer.Warn(err.Error())
	}
}

// system returns the configured default house system.
func (s *session) system() astro.HouseSystem {
	sys, err := s.cfg.System()
	if err != nil {
		return astro.Placidus
	}
	return sys
}

func (s *session) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(ctx, s.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open chart store: %w", err)
	}
	return st, nil
}

// addBirthFlags registers the flags that select or describe birth data.
func addBirthFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("chart", "", "saved chart id or name")
	f.String("file", "", "chart TOML file")
	addRecordFlags(f)
}

// addRecordFlags registers the inline record fields.
func addRecordFlags(f *pflag.FlagSet) {
	f.String("name", "inline", "chart name")
	f.String("date", "", "birth date, YYYY-MM-DD")
	f.String("time", "12:00", "birth time, HH:MM")
	f.String("ampm", "", "AM or PM for a 12-hour --time")
	f.Float64("lat", 0, "latitude, degrees north")
	f.Float64("lon", 0, "longitude, degrees east")
	f.String("tz", "", "IANA timezone of the birth time (default UTC)")
	f.String("location", "", "place name, for display")
	f.String("house-system", "", "house system code or name (default from config)")
}

// recordFromFlags builds a record from the inline flags.
func recordFromFlags(f *pflag.FlagSet) record.Record {
	var r record.Record
	r.Name, _ = f.GetString("name")
	r.BirthDate, _ = f.GetString("date")
	r.BirthTime, _ = f.GetString("time")
	r.AMPM, _ = f.GetString("ampm")
	r.Latitude, _ = f.GetFloat64("lat")
	r.Longitude, _ = f.GetFloat64("lon")
	r.Timezone, _ = f.GetString("tz")
	r.Location, _ = f.GetString("location")
	r.HouseSystem, _ = f.GetString("house-system")
	return r
}

// birthRecord resolves the record selected by --chart, --file, or the inline
// flags, in that order. --house-system overrides a stored system.
func (s *session) birthRecord(cmd *cobra.Command) (record.Record, error) {
	f := cmd.Flags()
	ref, _ := f.GetString("chart")
	file, _ := f.GetString("file")

	var (
		r   record.Record
		err error
	)
	switch {
	case ref != "":
		st, serr := s.openStore(cmd.Context())
		if serr != nil {
			return record.Record{}, serr
		}
		defer st.Close()
		r, err = st.Lookup(cmd.Context(), ref)
	case file != "":
		r, err = record.Load(file)
	default:
		r = recordFromFlags(f)
		if r.BirthDate == "" {
			return record.Record{}, errNoBirthData
		}
	}
	if err != nil {
		return record.Record{}, err
	}

	if f.Changed("house-system") {
		r.HouseSystem, _ = f.GetString("house-system")
	}
	return r, nil
}

// debugf prints a status line when verbose output is enabled.
func (s *session) debugf(format string, args ...any) {
	if s.cfg.Verbose {
		s.printer.Info(fmt.Sprintf(format, args...))
	}
}

// natal resolves r and computes its natal chart.
func (s *session) natal(r record.Record) (chart.Chart, error) {
	b, err := r.Resolve(s.system())
	if err != nil {
		return chart.Chart{}, err
	}
	s.debugf("%s: born %s UTC at %.4f, %.4f (%s houses)",
		r.Name, b.Instant.Format("2006-01-02 15:04"), b.Latitude, b.Longitude, b.HouseSystem)
	return s.engine.Natal(b.Instant, chart.Location{Latitude: b.Latitude, Longitude: b.Longitude}, b.HouseSystem)
}

// loadNatal is birthRecord followed by natal.
func (s *session) loadNatal(cmd *cobra.Command) (record.Record, chart.Chart, error) {
	r, err := s.birthRecord(cmd)
	if err != nil {
		return record.Record{}, chart.Chart{}, err
	}
	c, err := s.natal(r)
	if err != nil {
		return record.Record{}, chart.Chart{}, err
	}
	return r, c, nil
}
