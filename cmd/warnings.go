package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/degreeplan/internal/telemetry"
	"github.com/papapumpkin/degreeplan/internal/warning"
)

var warningsCmd = &cobra.Command{
	Use:   "warnings <plan.toml>",
	Short: "Report load, requisite and duplicate warnings for a plan",
	Long: `Walks the plan term by term and reports credit-load, corequisite,
prerequisite and duplicate-course warnings.

With --watch, the plan is re-checked every time the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runWarnings,
}

func init() {
	warningsCmd.Flags().Bool("json", false, "print warnings as JSON to stdout")
	warningsCmd.Flags().Bool("watch", false, "re-check the plan whenever it changes")
	warningsCmd.Flags().Bool("catalog", false, "fill missing course data from the course store")
	rootCmd.AddCommand(warningsCmd)
}

func runWarnings(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	watching, _ := cmd.Flags().GetBool("watch")
	hydrate, _ := cmd.Flags().GetBool("catalog")
	path := args[0]

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	check := func(ctx context.Context) error {
		plan, err := s.loadPlan(ctx, path, hydrate)
		if err != nil {
			return err
		}
		c, err := warning.Produce(plan.Schedule(), plan.Transfer, s.warningOptions())
		if err != nil {
			return err
		}
		s.record(telemetry.KindEvaluation, path, map[string]any{
			"command":         "warnings",
			"normal_warnings": len(c.NormalWarnings),
			"course_warnings": len(c.CourseWarnings),
		})
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), c)
		}
		s.printer.Warnings(c)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return runChecks(ctx, s, watching, []string{path}, check)
}
