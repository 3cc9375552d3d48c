package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/degreeplan/internal/config"
	"github.com/papapumpkin/degreeplan/internal/planfile"
	"github.com/papapumpkin/degreeplan/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check plan, major, course and hierarchy files",
	Long: `Detects the kind of each file and reports every structural and field
problem in it. With no files, validates the loaded configuration only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := ui.NewWriter(cmd.ErrOrStderr(), true)
		ok := true

		if _, err := config.Load(); err != nil {
			printer.ValidateResult("config", "settings", err)
			ok = false
		} else if len(args) == 0 {
			printer.ValidateResult("config", "settings", nil)
		}

		for _, path := range args {
			kind, err := planfile.Validate(path)
			if kind == "" {
				kind = "unknown"
			}
			printer.ValidateResult(path, string(kind), err)
			if err != nil {
				ok = false
			}
		}

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
