package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/timecrisis/internal/record"
	"github.com/papapumpkin/timecrisis/internal/store"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Manage saved birth charts (add, list, show, rm, import, export)",
	Long: `Saved charts live in a SQLite database (store.path). Any command that
takes birth data accepts --chart with a saved chart's id or name.`,
}

var chartAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a chart from inline birth data",
	Args:  cobra.NoArgs,
	RunE:  runChartAdd,
}

var chartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved charts",
	Args:  cobra.NoArgs,
	RunE:  runChartList,
}

var chartShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a saved chart's birth data",
	Args:  cobra.ExactArgs(1),
	RunE:  runChartShow,
}

var chartRmCmd = &cobra.Command{
	Use:   "rm <id|name>",
	Short: "Delete a saved chart",
	Args:  cobra.ExactArgs(1),
	RunE:  runChartRm,
}

var chartImportCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Save a chart from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runChartImport,
}

var chartExportCmd = &cobra.Command{
	Use:   "export <id|name> <file.toml>",
	Short: "Write a saved chart to a TOML file",
	Args:  cobra.ExactArgs(2),
	RunE:  runChartExport,
}

func init() {
	addRecordFlags(chartAddCmd.Flags())
	_ = chartAddCmd.MarkFlagRequired("name")
	_ = chartAddCmd.MarkFlagRequired("date")

	chartCmd.AddCommand(chartAddCmd)
	chartCmd.AddCommand(chartListCmd)
	chartCmd.AddCommand(chartShowCmd)
	chartCmd.AddCommand(chartRmCmd)
	chartCmd.AddCommand(chartImportCmd)
	chartCmd.AddCommand(chartExportCmd)
	rootCmd.AddCommand(chartCmd)
}

// withStore opens a session and the chart store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(s *session, st *store.SQLiteStore) error) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(s, st)
}

func runChartAdd(cmd *cobra.Command, _ []string) error {
	r := recordFromFlags(cmd.Flags())
	return withStore(cmd, func(s *session, st *store.SQLiteStore) error {
		return s.saveChart(cmd, st, &r)
	})
}

func runChartImport(cmd *cobra.Command, args []string) error {
	r, err := record.Load(args[0])
	if err != nil {
		return err
	}
	return withStore(cmd, func(s *session, st *store.SQLiteStore) error {
		return s.saveChart(cmd, st, &r)
	})
}

func (s *session) saveChart(cmd *cobra.Command, st *store.SQLiteStore, r *record.Record) error {
	if err := st.Save(cmd.Context(), r); err != nil {
		return err
	}
	s.emitter.ChartSaved(r.ID, r.Name)
	s.printer.Success(fmt.Sprintf("saved %s (%s)", r.Name, r.ID))
	return nil
}

func runChartList(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, func(s *session, st *store.SQLiteStore) error {
		rs, err := st.List(cmd.Context())
		if err != nil {
			return err
		}
		s.printer.Records(rs)
		return nil
	})
}

func runChartShow(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(s *session, st *store.SQLiteStore) error {
		r, err := st.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		s.printer.Record(r)
		return nil
	})
}

func runChartRm(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(s *session, st *store.SQLiteStore) error {
		r, err := st.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := st.Delete(cmd.Context(), r.ID); err != nil {
			return err
		}
		s.emitter.ChartDeleted(r.ID, r.Name)
		s.printer.Success("deleted " + r.Name)
		return nil
	})
}

func runChartExport(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(s *session, st *store.SQLiteStore) error {
		r, err := st.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := record.Save(args[1], &r); err != nil {
			return err
		}
		s.printer.Success(fmt.Sprintf("wrote %s to %s", r.Name, args[1]))
		return nil
	})
}
