package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/timecrisis/internal/chart"
	"github.com/papapumpkin/timecrisis/internal/record"
)

var returnCmd = &cobra.Command{
	Use:   "return",
	Short: "Find solar and lunar return charts",
}

var returnSolarCmd = &cobra.Command{
	Use:   "solar",
	Short: "Chart for the Sun's return to its natal longitude in a year",
	Args:  cobra.NoArgs,
	RunE:  runReturnSolar,
}

var returnLunarCmd = &cobra.Command{
	Use:   "lunar",
	Short: "Chart for the Moon's return to its natal longitude near a date",
	Args:  cobra.NoArgs,
	RunE:  runReturnLunar,
}

func init() {
	for _, c := range []*cobra.Command{returnSolarCmd, returnLunarCmd} {
		addBirthFlags(c)
		c.Flags().Float64("return-lat", 0, "cast the return for this latitude (default birth place)")
		c.Flags().Float64("return-lon", 0, "cast the return for this longitude (default birth place)")
	}
	returnSolarCmd.Flags().Int("year", time.Now().Year(), "return year")
	returnLunarCmd.Flags().String("from", "", "search start, YYYY-MM-DD or RFC 3339 (default now)")

	returnCmd.AddCommand(returnSolarCmd)
	returnCmd.AddCommand(returnLunarCmd)
	rootCmd.AddCommand(returnCmd)
}

func runReturnSolar(cmd *cobra.Command, _ []string) error {
	year, _ := cmd.Flags().GetInt("year")
	return runReturn(cmd, "solar", func(s *session, birth record.Birth, loc chart.Location) (chart.Return, error) {
		return s.engine.SolarReturn(birth.Instant, year, loc, birth.HouseSystem)
	})
}

func runReturnLunar(cmd *cobra.Command, _ []string) error {
	from, err := instantFlag(cmd, "from", time.Now())
	if err != nil {
		return err
	}
	return runReturn(cmd, "lunar", func(s *session, birth record.Birth, loc chart.Location) (chart.Return, error) {
		return s.engine.LunarReturn(birth.Instant, from, loc, birth.HouseSystem)
	})
}

type returnFunc func(s *session, birth record.Birth, loc chart.Location) (chart.Return, error)

func runReturn(cmd *cobra.Command, kind string, find returnFunc) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.birthRecord(cmd)
	if err != nil {
		return err
	}
	birth, err := r.Resolve(s.system())
	if err != nil {
		return err
	}
	loc := chart.Location{Latitude: birth.Latitude, Longitude: birth.Longitude}
	if cmd.Flags().Changed("return-lat") {
		loc.Latitude, _ = cmd.Flags().GetFloat64("return-lat")
	}
	if cmd.Flags().Changed("return-lon") {
		loc.Longitude, _ = cmd.Flags().GetFloat64("return-lon")
	}

	ret, err := find(s, birth, loc)
	if err != nil {
		return err
	}
	s.emitter.ReturnFound(r.ID, kind, ret.Exact)

	s.printer.Return(fmt.Sprintf("%s return for %s", kind, r.Name), ret)
	return nil
}
