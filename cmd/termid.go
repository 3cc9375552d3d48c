package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/degreeplan/internal/schedule"
	"github.com/papapumpkin/degreeplan/internal/ui"
)

var termIDCmd = &cobra.Command{
	Use:   "termid <season> <year>",
	Short: "Print the term id for a season and academic year",
	Long: `Derives the numeric term id used in warnings. Seasons are FL, SP, S1,
S2 and SM. The year is the academic year the term belongs to, for example
"termid FL 18" prints 201910.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		season := strings.ToUpper(args[0])
		year, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid year %q: %w", args[1], err)
		}
		id, err := schedule.TermID(schedule.Season(season), year)
		if err != nil {
			return err
		}
		ui.NewWriter(cmd.OutOrStdout(), false).TermID(season, year, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(termIDCmd)
}
