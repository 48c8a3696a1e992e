package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/timecrisis/internal/aspect"
	"github.com/papapumpkin/timecrisis/internal/record"
	"github.com/papapumpkin/timecrisis/internal/timeline"
)

var timemapCmd = &cobra.Command{
	Use:   "timemap",
	Short: "Build the time map of progressed and transiting aspects",
	Long: `Scans a window of 30-day months one day at a time and reports every
interval during which a progressed pair or a transiting body to a natal body
stayed within orb, with the date of exactness.

With --watch and --file, the map is rebuilt whenever the chart file changes.
A rebuild in progress is cancelled when newer input arrives.`,
	Args: cobra.NoArgs,
	RunE: runTimemap,
}

func init() {
	addBirthFlags(timemapCmd)
	timemapCmd.Flags().String("start", "", "first day of the window, YYYY-MM-DD (default today)")
	timemapCmd.Flags().Int("months", 0, "window length in 30-day months (default timeline.months)")
	timemapCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	timemapCmd.Flags().Bool("watch", false, "rebuild when the --file chart changes")
	rootCmd.AddCommand(timemapCmd)
}

func runTimemap(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	format, _ := cmd.Flags().GetString("format")
	render, err := timemapRenderer(s, cmd.OutOrStdout(), format)
	if err != nil {
		return err
	}
	start, err := instantFlag(cmd, "start", time.Now())
	if err != nil {
		return err
	}
	months := s.cfg.Timeline.Months
	if cmd.Flags().Changed("months") {
		months, _ = cmd.Flags().GetInt("months")
	}
	w, err := timeline.NewWindow(start, months)
	if err != nil {
		return err
	}
	proc, err := s.processor()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := s.birthRecord(cmd)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		res, err := s.timemap(ctx, proc, r, w)
		if err != nil {
			return err
		}
		return render(res)
	}

	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		return fmt.Errorf("--watch requires --file")
	}
	return s.watchTimemap(ctx, proc, file, r, w, render)
}

// processor builds a time map processor from the loaded configuration.
func (s *session) processor() (*timeline.Processor, error) {
	bodies, err := s.cfg.TransitBodies()
	if err != nil {
		return nil, err
	}
	opts := timeline.Options{
		ProgressionOrb: s.cfg.Orbs.Progression,
		TransitOrb:     s.cfg.Orbs.Transit,
		TransitBodies:  bodies,
		Kinds:          aspect.MajorKinds(),
	}
	return timeline.NewProcessor(s.engine, opts, s.emitter), nil
}

func (s *session) timemap(ctx context.Context, proc *timeline.Processor, r record.Record, w timeline.Window) (timeline.Result, error) {
	natal, err := s.natal(r)
	if err != nil {
		return timeline.Result{}, err
	}
	res, err := proc.Run(ctx, natal, w)
	if err != nil {
		return timeline.Result{}, err
	}
	s.debugf("run %s: %d events over %d days", res.RunID, len(res.Events), w.Months*timeline.DaysPerMonth)
	return res, nil
}

type runOutcome struct {
	gen int
	res timeline.Result
	err error
}

// watchTimemap renders a map for r, then rebuilds it on every change to
// file until ctx is done. Results of superseded runs are discarded.
func (s *session) watchTimemap(ctx context.Context, proc *timeline.Processor, file string, r record.Record,
	w timeline.Window, render func(timeline.Result) error) error {
	watcher, err := record.NewWatcher(file)
	if err != nil {
		return fmt.Errorf("watch %s: %w", file, err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", file, err)
	}
	defer watcher.Stop()

	outcomes := make(chan runOutcome)
	cancelRun := context.CancelFunc(func() {})
	defer func() { cancelRun() }()

	gen := 0
	start := func(r record.Record) {
		cancelRun()
		gen++
		runCtx, cancel := context.WithCancel(ctx)
		cancelRun = cancel
		go func(g int) {
			res, err := s.timemap(runCtx, proc, r, w)
			select {
			case outcomes <- runOutcome{gen: g, res: res, err: err}:
			case <-runCtx.Done():
			}
		}(gen)
	}

	start(r)
	s.printer.Info("watching " + watcher.File + " for changes...")
	for {
		select {
		case <-ctx.Done():
			s.printer.Info("stopped")
			return nil

		case o := <-outcomes:
			if o.gen != gen {
				continue
			}
			if o.err != nil {
				s.printer.Error(o.err.Error())
				continue
			}
			if err := render(o.res); err != nil {
				return err
			}

		case ch, ok := <-watcher.Changes:
			if !ok {
				return nil
			}
			switch ch.Kind {
			case record.ChangeModified:
				s.printer.Info("chart changed, rebuilding...")
				start(ch.Record)
			case record.ChangeRemoved:
				s.printer.Warn(ch.File + " was removed; keeping the last map")
			case record.ChangeInvalid:
				s.printer.Warn(ch.Err.Error())
			}
		}
	}
}

// timemapRenderer returns the writer for the requested output format.
func timemapRenderer(s *session, out io.Writer, format string) (func(timeline.Result) error, error) {
	switch format {
	case "", "text":
		return func(res timeline.Result) error {
			s.printer.Timeline(res)
			return nil
		}, nil
	case "json":
		return func(res timeline.Result) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}, nil
	case "yaml":
		return func(res timeline.Result) error {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(res); err != nil {
				return err
			}
			return enc.Close()
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: want text, json, or yaml", format)
	}
}
