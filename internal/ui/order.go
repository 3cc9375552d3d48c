package ui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/degreeplan/internal/ansi"
)

// Ordering prints a prerequisite-respecting course sequence, one layer per
// line. Every course in a layer depends only on courses in earlier layers.
func (p *Printer) Ordering(layers [][]string) {
	if len(layers) == 0 {
		p.Info("(no courses)")
		return
	}
	for i, layer := range layers {
		label := fmt.Sprintf("Layer %d: ", i+1)
		p.printf("%s%s\n", p.style(label, ansi.Dim), strings.Join(layer, ", "))
	}
}

// Chain is one course's place in a prerequisite graph.
type Chain struct {
	Course        string   `json:"course"`
	Prerequisites []string `json:"prerequisites"`
	Unlocks       []string `json:"unlocks"`
	Next          []string `json:"next"`
}

// Chain prints the prerequisites of a course in sequence order, the courses
// it unlocks, and which courses of the chain can be taken next.
func (p *Printer) Chain(c Chain) {
	code := p.style(c.Course, ansi.Bold)
	if len(c.Prerequisites) == 0 {
		p.printf("%s has no prerequisites\n", code)
	} else {
		p.printf("%s needs: %s\n", code, strings.Join(c.Prerequisites, " → "))
	}
	if len(c.Unlocks) > 0 {
		p.printf("  %s %s\n", p.style("unlocks:", ansi.Dim), strings.Join(c.Unlocks, ", "))
	}
	if len(c.Next) > 0 {
		p.printf("  %s %s\n", p.style("take next:", ansi.Dim), strings.Join(c.Next, ", "))
	}
}
