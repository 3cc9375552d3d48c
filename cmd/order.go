package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/dag"
	"github.com/papapumpkin/degreeplan/internal/ui"
	"github.com/papapumpkin/degreeplan/internal/warning"
)

var orderCmd = &cobra.Command{
	Use:   "order <plan.toml>",
	Short: "Print a prerequisite-respecting sequence of the plan's courses",
	Long: `Builds a graph from each planned course's prerequisites and prints the
courses in layers: every course depends only on courses in earlier layers.

With --for, prints the prerequisites of one course in an order they can be
taken, the planned courses it unlocks, and which of its chain can be taken
next given transfer credit.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrder,
}

func init() {
	orderCmd.Flags().String("for", "", "print the prerequisite chain and unlocked courses of one course code")
	orderCmd.Flags().Bool("json", false, "print the ordering as JSON to stdout")
	orderCmd.Flags().Bool("catalog", false, "fill missing course data from the course store")
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("for")
	asJSON, _ := cmd.Flags().GetBool("json")
	hydrate, _ := cmd.Flags().GetBool("catalog")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := s.loadPlan(cmd.Context(), args[0], hydrate)
	if err != nil {
		return err
	}
	g, err := warning.PrerequisiteGraph(slices.Concat(plan.Transfer, plan.Schedule().Courses()))
	if err != nil {
		return err
	}

	if target == "" {
		layers, err := g.Layers()
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), layers)
		}
		s.printer.Ordering(layers)
		return nil
	}

	ref, err := course.ParseCode(target)
	if err != nil {
		return err
	}
	code := ref.Code()
	if !g.HasVertex(code) {
		return fmt.Errorf("%s is not in the plan", code)
	}
	chain, err := courseChain(g, code, plan.Transfer)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), chain)
	}
	s.printer.Chain(chain)
	return nil
}

// courseChain places code in g. Transfer credits count as taken when
// deciding which courses of the chain are ready next.
func courseChain(g *dag.Graph, code string, transfers []course.Course) (ui.Chain, error) {
	order, err := g.TopologicalOrdering()
	if err != nil {
		return ui.Chain{}, err
	}
	ancestors := g.Ancestors(code)
	chain := ui.Chain{Course: code, Prerequisites: []string{}, Unlocks: g.Descendants(code)}
	for _, id := range order {
		if slices.Contains(ancestors, id) {
			chain.Prerequisites = append(chain.Prerequisites, id)
		}
	}
	if chain.Unlocks == nil {
		chain.Unlocks = []string{}
	}

	done := make(map[string]bool, len(transfers))
	for _, t := range transfers {
		done[t.Code()] = true
	}
	chain.Next = []string{}
	for _, id := range g.Ready(done) {
		if id == code || slices.Contains(ancestors, id) {
			chain.Next = append(chain.Next, id)
		}
	}
	return chain, nil
}
