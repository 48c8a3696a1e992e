package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/timecrisis/internal/aspect"
)

var transitsCmd = &cobra.Command{
	Use:   "transits",
	Short: "Show transiting positions and their aspects to a natal chart",
	Args:  cobra.NoArgs,
	RunE:  runTransits,
}

func init() {
	addBirthFlags(transitsCmd)
	transitsCmd.Flags().String("at", "", "instant, YYYY-MM-DD or RFC 3339 (default now)")
	transitsCmd.Flags().Float64("orb", 0, "aspect orb in degrees (default orbs.transit)")
	rootCmd.AddCommand(transitsCmd)
}

func runTransits(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	at, err := instantFlag(cmd, "at", time.Now())
	if err != nil {
		return err
	}
	r, natal, err := s.loadNatal(cmd)
	if err != nil {
		return err
	}
	tr, err := s.engine.Transits(at)
	if err != nil {
		return err
	}

	orb := s.cfg.Orbs.Transit
	if cmd.Flags().Changed("orb") {
		orb, _ = cmd.Flags().GetFloat64("orb")
	}

	s.printer.Positions(fmt.Sprintf("Transits %s UTC for %s", at.UTC().Format("2006-01-02 15:04"), r.Name), tr, &natal.Cusps)
	s.printer.Aspects("Transits to natal", aspect.Cross(tr, natal.Placement, orb, aspect.MajorKinds()))
	return nil
}

// instantFlag parses a date or RFC 3339 timestamp flag, returning def when
// the flag is empty. A bare date is midnight UTC.
func instantFlag(cmd *cobra.Command, name string, def time.Time) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	return parseInstant(v, def)
}

func parseInstant(v string, def time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: want YYYY-MM-DD or RFC 3339", v)
	}
	return t.UTC(), nil
}
