package ui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/degreeplan/internal/ansi"
	"github.com/papapumpkin/degreeplan/internal/scrape"
)

// ScrapeSummary prints each failed entry with its trace, then totals.
func (p *Printer) ScrapeSummary(s scrape.Summary) {
	for _, e := range s.Err {
		trace := make([]string, len(e.Trace))
		for i, st := range e.Trace {
			trace[i] = string(st)
		}
		p.printf("  %s %s %s\n", p.style("✗", ansi.Red), e.ID, p.style("["+strings.Join(trace, " → ")+"]", ansi.Dim))
		for _, err := range e.Result.Err {
			p.printf("      %s\n", err)
		}
	}
	color := ansi.Green
	if len(s.Err) > 0 {
		color = ansi.Yellow
	}
	p.printf("%s %s\n",
		p.style(fmt.Sprintf("scrape %s:", s.RunID), ansi.Bold),
		p.style(fmt.Sprintf("%d compiled, %d failed", len(s.Ok), len(s.Err)), color))
}
