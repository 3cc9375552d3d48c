// Package ui renders warnings, audits, course orderings, and scrape results
// for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/papapumpkin/degreeplan/internal/ansi"
)

// Printer writes human-facing output, colored unless disabled.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a colored printer writing to stderr.
func New() *Printer {
	return &Printer{w: os.Stderr, color: true}
}

// NewWriter returns a printer writing to w.
func NewWriter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// style applies codes when color is enabled.
func (p *Printer) style(s string, codes ...string) string {
	if !p.color {
		return s
	}
	return ansi.Style(s, codes...)
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Error prints msg in red.
func (p *Printer) Error(msg string) {
	p.printf("%s%s\n", p.style("error: ", ansi.Red, ansi.Bold), msg)
}

// Info prints an informational line.
func (p *Printer) Info(msg string) {
	p.printf("%s\n", p.style(msg, ansi.Dim))
}

// Success prints a green check line.
func (p *Printer) Success(msg string) {
	p.printf("%s\n", p.style("✓ "+msg, ansi.Green, ansi.Bold))
}

// Refresh clears the screen before a watch re-run and names the file that
// triggered it.
func (p *Printer) Refresh(file string) {
	if p.color {
		p.printf("%s", ansi.ClearScreen)
	}
	p.printf("%s\n", p.style("↻ "+file+" changed", ansi.Cyan))
}

// TermID prints a derived term id.
func (p *Printer) TermID(season string, year, id int) {
	p.printf("%s %d → %s\n", season, year, p.style(fmt.Sprint(id), ansi.Bold))
}

// ValidateResult reports the outcome of validating one file.
func (p *Printer) ValidateResult(path, kind string, err error) {
	if err == nil {
		p.printf("%s — %s, no errors\n", p.style("✓ "+path, ansi.Green, ansi.Bold), kind)
		return
	}
	p.printf("%s — %s:\n", p.style("✗ "+path, ansi.Red, ansi.Bold), kind)
	for _, e := range splitErrors(err) {
		p.printf("  %s%s\n", p.style("• ", ansi.Red), e.Error())
	}
}

func splitErrors(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
