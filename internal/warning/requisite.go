package warning

import (
	"strings"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/tracker"
)

// Index answers whether a course code has been taken.
type Index interface {
	Contains(code string) bool
}

// Unmet evaluates a requisite expression against idx. When the expression
// is not satisfied it returns a trace of what is missing and true.
//
// An AND stops at its first missing leaf ("AND: CS2500") or failing child
// ("AND: {<child trace>}"). An OR is satisfied by any branch; otherwise it
// lists every branch, abbreviating nested expressions as {Object}.
func Unmet(e course.Expr, idx Index) (string, bool) {
	switch e.Type {
	case course.ExprAnd:
		for _, v := range e.Values {
			if v.IsLeaf() {
				if code := v.Ref().Code(); !idx.Contains(code) {
					return "AND: " + code, true
				}
				continue
			}
			if trace, unmet := Unmet(v, idx); unmet {
				return "AND: {" + trace + "}", true
			}
		}
		return "", false
	case course.ExprOr:
		branches := make([]string, 0, len(e.Values))
		for _, v := range e.Values {
			if v.IsLeaf() {
				code := v.Ref().Code()
				if idx.Contains(code) {
					return "", false
				}
				branches = append(branches, code)
				continue
			}
			if _, unmet := Unmet(v, idx); !unmet {
				return "", false
			}
			branches = append(branches, "{Object}")
		}
		return "OR: " + strings.Join(branches, ","), true
	default:
		code := e.Ref().Code()
		if idx.Contains(code) {
			return "", false
		}
		return code, true
	}
}

// CheckPrerequisites reports every course in termCourses whose
// prerequisites are not met by idx.
func CheckPrerequisites(termCourses []course.Course, idx Index, termID int) []CourseWarning {
	var out []CourseWarning
	for _, c := range termCourses {
		if c.Prereqs == nil {
			continue
		}
		if trace, unmet := Unmet(*c.Prereqs, idx); unmet {
			out = append(out, CourseWarning{
				Subject: c.Subject,
				ClassID: c.ClassID,
				Message: c.Code() + ": prereqs not satisfied: " + trace,
				TermID:  termID,
			})
		}
	}
	return out
}

// CheckCorequisites reports every course in termCourses whose corequisites
// are not also in termCourses.
func CheckCorequisites(termCourses []course.Course, termID int) []CourseWarning {
	same := tracker.New()
	same.AddCourses(termCourses, termID)

	var out []CourseWarning
	for _, c := range termCourses {
		if c.Coreqs == nil {
			continue
		}
		if trace, unmet := Unmet(*c.Coreqs, same); unmet {
			out = append(out, CourseWarning{
				Subject: c.Subject,
				ClassID: c.ClassID,
				Message: c.Code() + ": coreqs not satisfied: " + trace,
				TermID:  termID,
			})
		}
	}
	return out
}
