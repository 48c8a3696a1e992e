package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/timecrisis/internal/aspect"
	"github.com/papapumpkin/timecrisis/internal/astro"
	"github.com/papapumpkin/timecrisis/internal/chart"
	"github.com/papapumpkin/timecrisis/internal/timeline"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show secondary or solar-arc progressions for a date",
	Long: `Progresses a natal chart to a target date using "a day for a year".

By default the secondary progressed chart is shown. With --solar-arc every
natal body is advanced by the arc the progressed Sun has travelled.`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

func init() {
	addBirthFlags(progressCmd)
	progressCmd.Flags().String("at", "", "target date, YYYY-MM-DD or RFC 3339 (default now)")
	progressCmd.Flags().Bool("solar-arc", false, "use solar-arc directions instead of secondary progressions")
	progressCmd.Flags().Float64("orb", 0, "aspect orb in degrees (default orbs.progression)")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, _ []string) error {
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

	solarArc, _ := cmd.Flags().GetBool("solar-arc")
	var (
		pl    astro.Placement
		title string
	)
	if solarArc {
		pl, err = s.engine.SolarArc(natal.Instant, at)
		title = "Solar arc"
	} else {
		pl, err = s.engine.SecondaryProgressions(natal.Instant, at)
		title = "Secondary progressions"
	}
	if err != nil {
		return err
	}

	orb := s.cfg.Orbs.Progression
	if cmd.Flags().Changed("orb") {
		orb, _ = cmd.Flags().GetFloat64("orb")
	}

	s.printer.Info(progressionOffset(natal.Instant, at))
	s.printer.Positions(fmt.Sprintf("%s to %s for %s", title, at.UTC().Format(time.DateOnly), r.Name), pl, &natal.Cusps)
	if solarArc {
		arc := chart.SolarArcDegrees(natal.Placement[astro.Sun].Longitude, pl[astro.Sun].Longitude)
		s.printer.Info(fmt.Sprintf("arc %.4f°", arc))
	}
	s.printer.Aspects("Progressed aspects", aspect.Within(pl, orb, aspect.MajorKinds()))
	s.printer.Aspects("Progressed to natal", aspect.Cross(pl, natal.Placement, orb, aspect.MajorKinds()))
	return nil
}

// progressionOffset describes how far target lies from birth in years and
// 30-day months, and the progressed instant it maps to.
func progressionOffset(birth, target time.Time) string {
	days := chart.ProgressionDays(birth, target)
	abs := max(days, -days)
	years := abs / 365
	months := (abs % 365) / timeline.DaysPerMonth
	sign := ""
	if days < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%dy %dm (%d days) → progressed instant %s",
		sign, years, months, days, chart.ProgressedInstant(birth, target).Format("2006-01-02 15:04"))
}
