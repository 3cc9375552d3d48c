package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/degreeplan/internal/nupath"
	"github.com/papapumpkin/degreeplan/internal/planfile"
	"github.com/papapumpkin/degreeplan/internal/requirement"
	"github.com/papapumpkin/degreeplan/internal/telemetry"
	"github.com/papapumpkin/degreeplan/internal/ui"
)

var auditCmd = &cobra.Command{
	Use:   "audit <plan.toml>",
	Short: "Audit a plan against a major's requirement groups",
	Long: `Evaluates every requirement group of the major (and the selected
concentration) against the plan and reports which groups are satisfied,
why the others are not, and NUPath coverage.

The concentration defaults to the one named in the plan. With --group, only
the named requirement group of the major or concentration is audited.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().String("major", "", "major requirements file (required)")
	auditCmd.Flags().String("concentration", "", "concentration to audit (default: the plan's)")
	auditCmd.Flags().String("group", "", "audit only this requirement group")
	auditCmd.Flags().Bool("json", false, "print the audit as JSON to stdout")
	auditCmd.Flags().Bool("watch", false, "re-audit whenever the plan or major changes")
	auditCmd.Flags().Bool("catalog", false, "fill missing course data from the course store")
	_ = auditCmd.MarkFlagRequired("major")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	majorPath, _ := cmd.Flags().GetString("major")
	concFlag, _ := cmd.Flags().GetString("concentration")
	groupFlag, _ := cmd.Flags().GetString("group")
	asJSON, _ := cmd.Flags().GetBool("json")
	watching, _ := cmd.Flags().GetBool("watch")
	hydrate, _ := cmd.Flags().GetBool("catalog")
	planPath := args[0]

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	check := func(ctx context.Context) error {
		plan, err := s.loadPlan(ctx, planPath, hydrate)
		if err != nil {
			return err
		}
		major, err := planfile.LoadMajor(majorPath)
		if err != nil {
			return err
		}
		report, err := audit(s, plan, major, concFlag, groupFlag)
		if err != nil {
			return err
		}
		s.record(telemetry.KindEvaluation, planPath, map[string]any{
			"command":     "audit",
			"major":       report.Major,
			"satisfied":   len(report.Result.Satisfied),
			"unsatisfied": len(report.Result.Warnings),
			"nupath":      report.NUPath.Complete,
		})
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		s.printer.Audit(report)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return runChecks(ctx, s, watching, []string{planPath, majorPath}, check)
}

func audit(s *session, plan *planfile.Plan, major *requirement.Major, concentration, group string) (ui.AuditReport, error) {
	if concentration == "" {
		concentration = plan.Concentration
	}
	var conc *requirement.Concentration
	if concentration != "" {
		c, ok := major.Concentration(concentration)
		if !ok {
			return ui.AuditReport{}, fmt.Errorf("major %q has no concentration %q", major.Name, concentration)
		}
		conc = c
	}

	scope := *major
	if group != "" {
		g, err := onlyGroup(major, conc, group)
		if err != nil {
			return ui.AuditReport{}, err
		}
		scope.Groups, conc = []requirement.Group{g}, nil
	}

	sched := plan.Schedule()
	res := requirement.Audit(sched, scope, conc,
		requirement.WithMaxDepth(s.cfg.MaxDepth),
		requirement.WithLogger(s.log),
	)
	courses := slices.Concat(plan.Transfer, sched.Courses())
	return ui.AuditReport{
		Major:         major.Name,
		Concentration: concentration,
		Result:        res,
		NUPath:        nupath.Coverage(courses),
	}, nil
}

// onlyGroup finds name among the groups of major and conc.
func onlyGroup(major *requirement.Major, conc *requirement.Concentration, name string) (requirement.Group, error) {
	all := requirement.Major{Name: major.Name, Groups: major.Groups}
	if conc != nil {
		all.Groups = slices.Concat(major.Groups, conc.Groups)
	}
	g, ok := all.RequirementGroupMap()[name]
	if !ok {
		return requirement.Group{}, fmt.Errorf("major %q has no requirement group %q (have: %s)",
			major.Name, name, strings.Join(all.RequirementGroups(), ", "))
	}
	return g, nil
}
