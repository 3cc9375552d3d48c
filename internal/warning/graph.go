package warning

import (
	"fmt"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/dag"
)

// PrerequisiteGraph builds a sequencing graph over the given courses with
// an edge from each scheduled prerequisite to the course requiring it.
// Prerequisites outside the course list are ignored.
func PrerequisiteGraph(courses []course.Course) (*dag.Graph, error) {
	g := dag.New()
	for _, c := range courses {
		if g.HasVertex(c.Code()) {
			continue
		}
		if err := g.AddVertex(c.Code()); err != nil {
			return nil, fmt.Errorf("warning: prerequisite graph: %w", err)
		}
	}
	for _, c := range courses {
		if c.Prereqs == nil {
			continue
		}
		for _, p := range c.Prereqs.Leaves() {
			if !g.HasVertex(p.Code()) {
				continue
			}
			if err := g.AddEdge(p.Code(), c.Code()); err != nil {
				return nil, fmt.Errorf("warning: prerequisite graph: %w", err)
			}
		}
	}
	return g, nil
}
