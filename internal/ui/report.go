package ui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/degreeplan/internal/ansi"
	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/nupath"
	"github.com/papapumpkin/degreeplan/internal/requirement"
	"github.com/papapumpkin/degreeplan/internal/warning"
)

// Warnings prints a warning pass: schedule warnings first, then course
// warnings, each in the order produced.
func (p *Printer) Warnings(c warning.Container) {
	total := len(c.NormalWarnings) + len(c.CourseWarnings)
	if total == 0 {
		p.Success("no warnings")
		return
	}
	p.printf("%s\n", p.style(fmt.Sprintf("⚠ %d warning(s)", total), ansi.Yellow, ansi.Bold))
	for _, w := range c.NormalWarnings {
		p.printf("  %s %s\n", p.style(fmt.Sprintf("[%d]", w.TermID), ansi.Dim), w.Message)
	}
	for _, w := range c.CourseWarnings {
		code := course.Ref{Subject: w.Subject, ClassID: w.ClassID}.Code()
		p.printf("  %s %s %s\n", p.style(fmt.Sprintf("[%d]", w.TermID), ansi.Dim), p.style(code, ansi.Bold), w.Message)
	}
}

// AuditReport is everything the audit command shows.
type AuditReport struct {
	Major         string             `json:"major"`
	Concentration string             `json:"concentration,omitempty"`
	Result        requirement.Result `json:"result"`
	NUPath        nupath.Report      `json:"nupath"`
}

// Audit prints satisfied and unsatisfied requirement groups followed by
// NUPath coverage.
func (p *Printer) Audit(r AuditReport) {
	title := r.Major
	if r.Concentration != "" {
		title += " / " + r.Concentration
	}
	p.printf("%s\n", p.style("audit: "+title, ansi.Bold, ansi.Cyan))

	for _, name := range r.Result.Satisfied {
		p.printf("  %s %s\n", p.style("✓", ansi.Green), name)
	}
	for _, w := range r.Result.Warnings {
		p.printf("  %s %s\n", p.style("✗", ansi.Red), w.RequirementGroup)
		p.printf("      %s\n", p.style(w.Message, ansi.Dim))
	}

	p.printf("%s ", p.style("nupath:", ansi.Bold))
	if r.NUPath.Complete {
		p.printf("%s\n", p.style("complete", ansi.Green))
		return
	}
	missing := make([]string, len(r.NUPath.Missing))
	for i, tag := range r.NUPath.Missing {
		missing[i] = string(tag)
	}
	p.printf("%s %s\n", p.style("missing", ansi.Yellow), strings.Join(missing, " "))
}

// Course prints one course's catalog record.
func (p *Printer) Course(c course.Course) {
	p.printf("%s %s\n", p.style(c.Code(), ansi.Bold), c.Name)
	credits := fmt.Sprint(c.CreditsMin)
	if c.CreditsMax != c.CreditsMin {
		credits += "-" + fmt.Sprint(c.CreditsMax)
	}
	p.printf("  credits:  %s\n", credits)
	if len(c.NUPaths) > 0 {
		p.printf("  nupaths:  %s\n", strings.Join(c.NUPaths, " "))
	}
	if c.Prereqs != nil {
		p.printf("  prereqs:  %s\n", FormatExpr(*c.Prereqs))
	}
	if c.Coreqs != nil {
		p.printf("  coreqs:   %s\n", FormatExpr(*c.Coreqs))
	}
}

// FormatExpr renders a requisite expression with explicit grouping, such
// as "CS2500 and (MATH1341 or MATH1342)".
func FormatExpr(e course.Expr) string {
	return formatExpr(e, false)
}

func formatExpr(e course.Expr, nested bool) string {
	if e.IsLeaf() {
		return e.Ref().Code()
	}
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = formatExpr(v, true)
	}
	s := strings.Join(parts, " "+string(e.Type)+" ")
	if nested && len(parts) > 1 {
		return "(" + s + ")"
	}
	return s
}
