package requirement

import (
	"math"
	"sort"
)

// SortByConstraint returns groups ordered so the most constrained are
// evaluated first: AND before OR before RANGE, then by ascending number of
// candidate courses. Ties keep their input order. This is a greedy
// approximation of an optimal allocation and can under-report satisfaction
// when a less constrained group consumes a course a later group needed.
func SortByConstraint(groups []Group) []Group {
	out := append([]Group(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := typeRank(out[i].Type), typeRank(out[j].Type)
		if ri != rj {
			return ri < rj
		}
		return candidates(out[i]) < candidates(out[j])
	})
	return out
}

func typeRank(t GroupType) int {
	switch t {
	case GroupAnd:
		return 0
	case GroupOr:
		return 1
	case GroupRange:
		return 2
	default:
		return 3
	}
}

// candidates counts the distinct courses that could satisfy g. Anything
// reaching a RANGE node is unbounded.
func candidates(g Group) int {
	if g.Type == GroupRange {
		return math.MaxInt
	}
	seen := make(map[string]bool)
	for _, r := range g.Requirements {
		if hasRange(r) {
			return math.MaxInt
		}
		for _, c := range r.Flatten() {
			seen[c.Code()] = true
		}
	}
	return len(seen)
}

func hasRange(r Requirement) bool {
	if r.Type == TypeRange {
		return true
	}
	for _, c := range r.Courses {
		if hasRange(c) {
			return true
		}
	}
	return false
}
