package requirement

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/schedule"
)

// DefaultMaxDepth bounds requirement nesting during evaluation.
const DefaultMaxDepth = 64

// GroupWarning describes one unsatisfied requirement group.
type GroupWarning struct {
	Message          string `json:"message"`
	RequirementGroup string `json:"requirementGroup"`
}

// Result is the outcome of one evaluation pass.
type Result struct {
	Warnings []GroupWarning `json:"warnings"`
	// Satisfied lists satisfied group names, major groups first, in
	// declared order.
	Satisfied []string `json:"satisfied"`
	// Allocations maps each used course code to the group it was
	// credited to.
	Allocations map[string]string `json:"allocations"`
}

// Option configures an evaluation.
type Option func(*evaluator)

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(e *evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *evaluator) {
		if l != nil {
			e.log = l
		}
	}
}

// Evaluate returns one warning per unsatisfied requirement group of m and,
// when non-nil, c. A group absent from the result is satisfied.
func Evaluate(s schedule.Schedule, m Major, c *Concentration, opts ...Option) []GroupWarning {
	return Audit(s, m, c, opts...).Warnings
}

// SatisfiedGroups returns the names of satisfied groups of m and c.
func SatisfiedGroups(s schedule.Schedule, m Major, c *Concentration, opts ...Option) []string {
	return Audit(s, m, c, opts...).Satisfied
}

// Audit evaluates every group of m and c in one allocation pass.
func Audit(s schedule.Schedule, m Major, c *Concentration, opts ...Option) Result {
	e := &evaluator{maxDepth: DefaultMaxDepth, log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}

	groups := append([]Group(nil), m.Groups...)
	if c != nil {
		groups = append(groups, c.Groups...)
	}

	a := newAllocation(takenFrom(s))
	failed := make(map[string]bool)
	var res Result
	for _, g := range SortByConstraint(groups) {
		a.owner = g.Name
		if msg, ok := e.group(g, a); !ok {
			res.Warnings = append(res.Warnings, GroupWarning{Message: msg, RequirementGroup: g.Name})
			failed[g.Name] = true
		}
	}
	for _, g := range groups {
		if !failed[g.Name] {
			res.Satisfied = append(res.Satisfied, g.Name)
		}
	}
	res.Allocations = a.used

	e.log.Debug("requirements evaluated",
		zap.String("major", m.Name),
		zap.Int("groups", len(groups)),
		zap.Int("unsatisfied", len(res.Warnings)),
		zap.Int("courses_used", len(a.used)))
	return res
}

// taken is an insertion-ordered map of scheduled courses. Credits are the
// course's minimum credit value.
type taken struct {
	codes   []string
	courses map[string]takenCourse
}

type takenCourse struct {
	ref     course.Ref
	credits int
}

func takenFrom(s schedule.Schedule) *taken {
	t := &taken{courses: make(map[string]takenCourse)}
	for _, c := range s.Courses() {
		code := c.Code()
		if _, ok := t.courses[code]; !ok {
			t.codes = append(t.codes, code)
		}
		t.courses[code] = takenCourse{ref: c.Ref, credits: c.CreditsMin}
	}
	return t
}

// allocation is the shared state of one evaluation pass: a course, once
// used by any requirement, is unavailable to every other.
type allocation struct {
	taken *taken
	used  map[string]string
	owner string
}

func newAllocation(t *taken) *allocation {
	return &allocation{taken: t, used: make(map[string]string)}
}

func (a *allocation) available(code string) bool {
	if _, ok := a.taken.courses[code]; !ok {
		return false
	}
	_, used := a.used[code]
	return !used
}

func (a *allocation) use(code string) int {
	a.used[code] = a.owner
	return a.taken.courses[code].credits
}

// tally accumulates the credits used by one top-level group.
type tally struct {
	hours int
}

type evaluator struct {
	maxDepth int
	log      *zap.Logger
}

const notSatisfied = "requirement not satisfied: "

func (e *evaluator) group(g Group, a *allocation) (string, bool) {
	t := &tally{}
	switch g.Type {
	case GroupAnd:
		var msgs []string
		for _, r := range g.Requirements {
			if msg, ok := e.requirement(r, a, t, 0, 1); !ok {
				msgs = append(msgs, msg)
			}
		}
		if len(msgs) > 0 {
			return notSatisfied + strings.Join(msgs, " AND "), false
		}
		return "", true
	case GroupOr:
		var msgs []string
		for _, r := range g.Requirements {
			if msg, ok := e.requirement(r, a, t, g.NumCreditsMin, 1); !ok {
				msgs = append(msgs, msg)
			}
			if t.hours >= g.NumCreditsMin {
				return "", true
			}
		}
		if t.hours >= g.NumCreditsMin {
			return "", true
		}
		return fmt.Sprintf("%sneed %d credits from: %s", notSatisfied, g.NumCreditsMin-t.hours, strings.Join(msgs, " OR ")), false
	case GroupRange:
		r := Requirement{Type: TypeRange, CreditsRequired: g.NumCreditsMin}
		if g.Range != nil {
			r = *g.Range
		}
		if msg, ok := e.requirement(r, a, t, g.NumCreditsMin, 1); !ok {
			return notSatisfied + msg, false
		}
		return "", true
	default:
		return fmt.Sprintf("%sunknown requirement type %q", notSatisfied, g.Type), false
	}
}

// requirement evaluates r, returning a failure message when unsatisfied.
// needed is the credit total of the enclosing group, or zero when every
// child must be satisfied.
func (e *evaluator) requirement(r Requirement, a *allocation, t *tally, needed, depth int) (string, bool) {
	if depth > e.maxDepth {
		e.log.Warn("requirement nesting too deep", zap.String("group", a.owner), zap.Int("max_depth", e.maxDepth))
		return fmt.Sprintf("(requirement nesting exceeds depth %d)", e.maxDepth), false
	}
	switch r.Type {
	case TypeCourse:
		code := r.Ref().Code()
		if !a.available(code) {
			return code, false
		}
		t.hours += a.use(code)
		return "", true
	case TypeAnd:
		msgs := e.children(r.Courses, a, t, needed, depth)
		if len(msgs) > 0 {
			return "(" + strings.Join(msgs, " and ") + ")", false
		}
		return "", true
	case TypeOr:
		msgs := e.children(r.Courses, a, t, needed, depth)
		if len(msgs) == len(r.Courses) {
			return "(" + strings.Join(msgs, " or ") + ")", false
		}
		return "", true
	case TypeRange:
		return e.courseRange(r, a, t)
	case TypeCredits:
		return e.credits(r, a, t)
	default:
		return fmt.Sprintf("(unknown requirement type %q)", r.Type), false
	}
}

func (e *evaluator) children(rs []Requirement, a *allocation, t *tally, needed, depth int) []string {
	var msgs []string
	for _, r := range rs {
		if msg, ok := e.requirement(r, a, t, needed, depth+1); !ok {
			msgs = append(msgs, msg)
		}
		// Stops once the group has enough credits. Corequisites carry zero
		// credits on a schedule, so the primary course alone can satisfy a
		// credit-counting parent without its corequisite being checked.
		// Known shortfall; left as is until the intended semantics are settled.
		if needed != 0 && t.hours >= needed {
			break
		}
	}
	return msgs
}

func (e *evaluator) courseRange(r Requirement, a *allocation, t *tally) (string, bool) {
	got := 0
	for _, code := range a.taken.codes {
		if got >= r.CreditsRequired {
			break
		}
		if !a.available(code) || !inRanges(a.taken.courses[code].ref, r.Ranges) {
			continue
		}
		credits := a.use(code)
		t.hours += credits
		got += credits
	}
	if got >= r.CreditsRequired {
		return "", true
	}
	parts := make([]string, len(r.Ranges))
	for i, sr := range r.Ranges {
		parts[i] = sr.String()
	}
	return fmt.Sprintf("(complete %d credits from %s)", r.CreditsRequired-got, strings.Join(parts, " ")), false
}

func (e *evaluator) credits(r Requirement, a *allocation, t *tally) (string, bool) {
	candidates := r.Flatten()
	wanted := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		wanted[c.Code()] = true
	}

	got := 0
	for _, code := range a.taken.codes {
		if !wanted[code] || !a.available(code) {
			continue
		}
		credits := a.use(code)
		t.hours += credits
		got += credits
	}

	if got < r.MinCredits {
		var untaken []string
		for _, c := range candidates {
			if _, ok := a.taken.courses[c.Code()]; !ok {
				untaken = append(untaken, c.Code())
			}
		}
		return fmt.Sprintf("(complete %d credits from %s)", r.MinCredits-got, strings.Join(untaken, ", ")), false
	}
	if r.MaxCredits > 0 && got > r.MaxCredits {
		return fmt.Sprintf("(%d credits taken over limit of %d)", got-r.MaxCredits, r.MaxCredits), false
	}
	return "", true
}

func inRanges(c course.Ref, ranges []SubjectRange) bool {
	for _, r := range ranges {
		if r.Contains(c) {
			return true
		}
	}
	return false
}
