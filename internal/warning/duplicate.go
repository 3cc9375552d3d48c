package warning

import "github.com/papapumpkin/degreeplan/internal/tracker"

// Duplicates reports, for every tracked code seen in more than one
// distinct term, one warning per term. Filler codes are skipped.
func Duplicates(t *tracker.Tracker, fillers []string) []CourseWarning {
	skip := make(map[string]bool, len(fillers))
	for _, f := range fillers {
		skip[f] = true
	}

	var out []CourseWarning
	for _, code := range t.Codes() {
		if skip[code] {
			continue
		}
		terms := distinct(t.TermIDs(code))
		if len(terms) < 2 {
			continue
		}
		e, _ := t.Entry(code)
		for _, id := range terms {
			out = append(out, CourseWarning{
				Subject: e.Subject,
				ClassID: e.ClassID,
				Message: code + ": appears in your schedule multiple times",
				TermID:  id,
			})
		}
	}
	return out
}

func distinct(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
