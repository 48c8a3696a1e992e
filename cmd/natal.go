package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/timecrisis/internal/aspect"
)

var natalCmd = &cobra.Command{
	Use:   "natal",
	Short: "Compute a natal chart with houses and aspects",
	Args:  cobra.NoArgs,
	RunE:  runNatal,
}

func init() {
	addBirthFlags(natalCmd)
	natalCmd.Flags().Float64("orb", 0, "aspect orb in degrees (default orbs.natal)")
	natalCmd.Flags().Bool("angles", false, "include ASC and MC in the aspect scan")
	natalCmd.Flags().Bool("major", false, "only scan the major aspects")
	rootCmd.AddCommand(natalCmd)
}

func runNatal(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	r, c, err := s.loadNatal(cmd)
	if err != nil {
		return err
	}

	orb := s.cfg.Orbs.Natal
	if cmd.Flags().Changed("orb") {
		orb, _ = cmd.Flags().GetFloat64("orb")
	}
	kinds := aspect.AllKinds()
	if major, _ := cmd.Flags().GetBool("major"); major {
		kinds = aspect.MajorKinds()
	}
	pl := c.Placement
	if angles, _ := cmd.Flags().GetBool("angles"); angles {
		pl = pl.WithAngles(c.Angles)
	}

	s.printer.Chart(r.Name, c)
	s.printer.Aspects("Natal aspects", aspect.Within(pl, orb, kinds))
	return nil
}
