package warning

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/schedule"
	"github.com/papapumpkin/degreeplan/internal/tracker"
)

func crs(subject string, id, credits int) course.Course {
	return course.Course{Ref: course.Ref{Subject: subject, ClassID: id}, CreditsMin: credits, CreditsMax: credits}
}

func withPrereq(c course.Course, e course.Expr) course.Course {
	c.Prereqs = &e
	return c
}

func withCoreq(c course.Course, e course.Expr) course.Course {
	c.Coreqs = &e
	return c
}

func term(season schedule.Season, year int, status schedule.Status, cs ...course.Course) schedule.Term {
	return schedule.Term{Season: season, Year: year, Status: status, Courses: cs}
}

// threeCourses is a 12-credit base load; one more four-credit course keeps
// a fall or spring term inside its band.
func threeCourses(subject string, first int) []course.Course {
	var out []course.Course
	for i := 0; i < 3; i++ {
		out = append(out, crs(subject, first+i, 4))
	}
	return out
}

func TestLoad_Boundaries(t *testing.T) {
	t.Parallel()
	ofCredits := func(n int) []course.Course {
		var out []course.Course
		for i := 0; i < n; i++ {
			out = append(out, crs("CS", 1000+i, 1))
		}
		return out
	}
	tests := []struct {
		name    string
		season  schedule.Season
		status  schedule.Status
		credits int
		want    []string
	}{
		{"fall at minimum", schedule.Fall, schedule.StatusClasses, 12, nil},
		{"fall under", schedule.Fall, schedule.StatusClasses, 11, []string{"Currently enrolled in 11 credits(s). May be under-enrolled. Minimum credits for this term 12."}},
		{"spring over", schedule.Spring, schedule.StatusClasses, 19, []string{"Currently enrolled in 19 credit(s). May be over-enrolled. Maximum credits for this term 18."}},
		{"fall at maximum", schedule.Fall, schedule.StatusClasses, 18, nil},
		{"empty term", schedule.Fall, schedule.StatusClasses, 0, nil},
		{"summer1 under", schedule.Summer1, schedule.StatusClasses, 3, []string{"Currently enrolled in 3 credits(s). May be under-enrolled. Minimum credits for this term 4."}},
		{"summer2 over", schedule.Summer2, schedule.StatusClasses, 10, []string{"Currently enrolled in 10 credit(s). May be over-enrolled. Maximum credits for this term 9."}},
		{"full summer under", schedule.SummerFull, schedule.StatusClasses, 8, []string{"Currently enrolled in 8 credits(s). May be under-enrolled. Minimum credits for this term 12."}},
		{"coop over", schedule.Fall, schedule.StatusCoop, 6, []string{"Currently enrolled in 6 credit(s). May be over-enrolled. Maximum credits for this term 5."}},
		{"coop light", schedule.Fall, schedule.StatusCoop, 4, nil},
		{"inactive", schedule.Fall, schedule.StatusInactive, 30, nil},
		{"hover", schedule.Fall, schedule.StatusClassesHover, 30, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Load(term(tt.season, 18, tt.status, ofCredits(tt.credits)...), 201910, DefaultBands())
			var msgs []string
			for _, w := range got {
				msgs = append(msgs, w.Message)
				if w.TermID != 201910 {
					t.Errorf("warning term id = %d, want 201910", w.TermID)
				}
			}
			if !reflect.DeepEqual(msgs, tt.want) {
				t.Errorf("Load() = %q, want %q", msgs, tt.want)
			}
		})
	}
}

func TestLoad_UsesMinimumCredits(t *testing.T) {
	t.Parallel()
	variable := crs("CS", 4992, 1)
	variable.CreditsMax = 12
	got := Load(term(schedule.Fall, 18, schedule.StatusClasses, append(threeCourses("CS", 2000), variable)...), 201910, DefaultBands())
	if len(got) != 0 {
		t.Errorf("variable credit course should count its minimum, got %+v", got)
	}
}

type set map[string]bool

func (s set) Contains(code string) bool { return s[code] }

func TestUnmet(t *testing.T) {
	t.Parallel()
	taken := set{"CS1800": true, "MATH1341": true}
	tests := []struct {
		name  string
		expr  course.Expr
		want  string
		unmet bool
	}{
		{"and satisfied", course.And(course.Leaf("CS", 1800), course.Leaf("MATH", 1341)), "", false},
		{"and missing leaf", course.And(course.Leaf("CS", 1800), course.Leaf("CS", 2500)), "AND: CS2500", true},
		{"and first missing wins", course.And(course.Leaf("CS", 2500), course.Leaf("CS", 2510)), "AND: CS2500", true},
		{"and nested", course.And(course.Leaf("CS", 1800), course.Or(course.Leaf("CS", 2500), course.Leaf("CS", 2510))), "AND: {OR: CS2500,CS2510}", true},
		{"or satisfied", course.Or(course.Leaf("CS", 2500), course.Leaf("CS", 1800)), "", false},
		{"or unmet", course.Or(course.Leaf("CS", 2500), course.Leaf("CS", 2510)), "OR: CS2500,CS2510", true},
		{"or nested abbreviated", course.Or(course.Leaf("CS", 2500), course.And(course.Leaf("CS", 3500))), "OR: CS2500,{Object}", true},
		{"or nested satisfied", course.Or(course.Leaf("CS", 2500), course.And(course.Leaf("CS", 1800))), "", false},
		{"bare leaf", course.Leaf("CS", 3500), "CS3500", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, unmet := Unmet(tt.expr, taken)
			if got != tt.want || unmet != tt.unmet {
				t.Errorf("Unmet() = (%q, %v), want (%q, %v)", got, unmet, tt.want, tt.unmet)
			}
		})
	}
}

func TestCheckPrerequisites(t *testing.T) {
	t.Parallel()
	taken := set{"CS1800": true}
	courses := []course.Course{
		withPrereq(crs("CS", 2500, 4), course.And(course.Leaf("CS", 1800))),
		withPrereq(crs("CS", 3500, 4), course.And(course.Leaf("CS", 2510))),
		crs("ENGW", 1111, 4),
	}
	got := CheckPrerequisites(courses, taken, 201930)
	want := []CourseWarning{{Subject: "CS", ClassID: 3500, Message: "CS3500: prereqs not satisfied: AND: CS2510", TermID: 201930}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CheckPrerequisites() = %+v, want %+v", got, want)
	}
}

func TestCheckCorequisites_SameTermOnly(t *testing.T) {
	t.Parallel()
	lecture := withCoreq(crs("CS", 2500, 4), course.And(course.Leaf("CS", 2501)))
	got := CheckCorequisites([]course.Course{lecture, crs("CS", 2501, 1)}, 201910)
	if len(got) != 0 {
		t.Errorf("coreq in same term should pass, got %+v", got)
	}
	got = CheckCorequisites([]course.Course{lecture}, 201910)
	want := []CourseWarning{{Subject: "CS", ClassID: 2500, Message: "CS2500: coreqs not satisfied: AND: CS2501", TermID: 201910}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CheckCorequisites() = %+v, want %+v", got, want)
	}
}

func TestDuplicates(t *testing.T) {
	t.Parallel()
	tr := tracker.New()
	tr.AddCourse(course.Ref{Subject: "CS", ClassID: 2500}, 201910)
	tr.AddCourse(course.Ref{Subject: "CS", ClassID: 2500}, 201930)
	tr.AddCourse(course.Ref{Subject: "XXXX", ClassID: 9999}, 201910)
	tr.AddCourse(course.Ref{Subject: "XXXX", ClassID: 9999}, 201930)
	tr.AddCourse(course.Ref{Subject: "CS", ClassID: 1800}, 201910)
	tr.AddCourse(course.Ref{Subject: "CS", ClassID: 1800}, 201910)

	got := Duplicates(tr, DefaultFillers)
	want := []CourseWarning{
		{Subject: "CS", ClassID: 2500, Message: "CS2500: appears in your schedule multiple times", TermID: 201910},
		{Subject: "CS", ClassID: 2500, Message: "CS2500: appears in your schedule multiple times", TermID: 201930},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Duplicates() = %+v, want %+v", got, want)
	}
}

func samplePlan() schedule.Schedule {
	fundies := withPrereq(crs("CS", 2510, 4), course.And(course.Leaf("CS", 2500)))
	ood := withPrereq(crs("CS", 3500, 4), course.And(course.Leaf("CS", 2510)))
	return schedule.Schedule{Years: []schedule.Year{
		{
			Year: 2,
			Fall: term(schedule.Fall, 19, schedule.StatusClasses,
				append(threeCourses("MATH", 3000), ood)...),
			Spring:  term(schedule.Spring, 20, schedule.StatusCoop),
			Summer1: term(schedule.Summer1, 20, schedule.StatusInactive),
			Summer2: term(schedule.Summer2, 20, schedule.StatusInactive),
		},
		{
			Year: 1,
			Fall: term(schedule.Fall, 18, schedule.StatusClasses,
				append(threeCourses("MATH", 1000), crs("CS", 2500, 4))...),
			Spring: term(schedule.Spring, 19, schedule.StatusClasses,
				append(threeCourses("MATH", 2000), fundies)...),
			Summer1: term(schedule.Summer1, 19, schedule.StatusInactive),
			Summer2: term(schedule.Summer2, 19, schedule.StatusInactive),
		},
	}}
}

func TestProduce_CleanPlan(t *testing.T) {
	t.Parallel()
	c, err := Produce(samplePlan(), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if len(c.CourseWarnings) != 0 {
		t.Errorf("unexpected course warnings: %+v", c.CourseWarnings)
	}
	if len(c.NormalWarnings) != 0 {
		t.Errorf("unexpected normal warnings: %+v", c.NormalWarnings)
	}
}

func TestProduce_NormalWarningsInTermOrder(t *testing.T) {
	t.Parallel()
	s := samplePlan()
	s.Years[0].Fall.Courses = append(s.Years[0].Fall.Courses, crs("HIST", 1130, 4))
	s.Years[1].Spring.Courses = s.Years[1].Spring.Courses[:1]
	s.Years[1].Spring.Courses = append(s.Years[1].Spring.Courses, crs("CS", 2510, 4))

	c, err := Produce(s, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	var terms []int
	for _, w := range c.NormalWarnings {
		terms = append(terms, w.TermID)
	}
	if !reflect.DeepEqual(terms, []int{201930, 202010}) {
		t.Errorf("normal warning terms = %v, want [201930 202010]", terms)
	}
}

func TestProduce_ChronologicalPrereqs(t *testing.T) {
	t.Parallel()
	s := samplePlan()
	// Move CS2500 after the course that needs it.
	y1 := &s.Years[1]
	y1.Fall.Courses, y1.Spring.Courses = y1.Spring.Courses, y1.Fall.Courses

	c, err := Produce(s, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	want := CourseWarning{Subject: "CS", ClassID: 2510, Message: "CS2510: prereqs not satisfied: AND: CS2500", TermID: 201910}
	if len(c.CourseWarnings) != 1 || c.CourseWarnings[0] != want {
		t.Errorf("CourseWarnings = %+v, want [%+v]", c.CourseWarnings, want)
	}

	opts := DefaultOptions()
	opts.Ordering = Lenient
	c, err = Produce(s, nil, opts)
	if err != nil {
		t.Fatalf("Produce(lenient): %v", err)
	}
	if len(c.CourseWarnings) != 0 {
		t.Errorf("lenient ordering should accept a later prerequisite, got %+v", c.CourseWarnings)
	}
}

func TestProduce_SameTermPrereqNotCounted(t *testing.T) {
	t.Parallel()
	s := schedule.Schedule{Years: []schedule.Year{{
		Year: 1,
		Fall: term(schedule.Fall, 18, schedule.StatusClasses,
			crs("CS", 2500, 4), withPrereq(crs("CS", 2510, 4), course.And(course.Leaf("CS", 2500))),
			crs("MATH", 1341, 4)),
	}}}
	c, err := Produce(s, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if len(c.CourseWarnings) != 1 || !strings.Contains(c.CourseWarnings[0].Message, "CS2510: prereqs not satisfied") {
		t.Errorf("CourseWarnings = %+v", c.CourseWarnings)
	}
}

func TestProduce_TransfersSatisfyPrereqsAndFlagRetakes(t *testing.T) {
	t.Parallel()
	s := samplePlan()
	transfers := []course.Course{crs("CS", 2500, 4), crs("CS", 1800, 4)}
	s.Years[1].Fall.Courses = threeCourses("MATH", 1000)
	s.Years[1].Fall.Courses = append(s.Years[1].Fall.Courses, crs("CS", 1800, 4))

	c, err := Produce(s, transfers, DefaultOptions())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	var dup []CourseWarning
	for _, w := range c.CourseWarnings {
		if strings.Contains(w.Message, "prereqs not satisfied") {
			t.Errorf("transfer credit should satisfy prerequisites: %+v", w)
		}
		if strings.Contains(w.Message, "appears in your schedule multiple times") {
			dup = append(dup, w)
		}
	}
	// CS1800 was transferred and retaken in the same first fall term, so
	// only one distinct term is recorded and no duplicate is raised.
	if len(dup) != 0 {
		t.Errorf("same-term transfer retake should not be a duplicate, got %+v", dup)
	}
}

func TestProduce_DuplicateAcrossTerms(t *testing.T) {
	t.Parallel()
	s := samplePlan()
	s.Years[0].Fall.Courses = append(s.Years[0].Fall.Courses, crs("CS", 2500, 4))

	c, err := Produce(s, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	var terms []int
	for _, w := range c.CourseWarnings {
		if w.Message == "CS2500: appears in your schedule multiple times" {
			terms = append(terms, w.TermID)
		}
	}
	if !reflect.DeepEqual(terms, []int{201910, 202010}) {
		t.Errorf("duplicate warning terms = %v, want [201910 202010]", terms)
	}
}

func TestProduce_InvalidSeason(t *testing.T) {
	t.Parallel()
	s := samplePlan()
	s.Years[0].Spring.Season = "WN"
	if _, err := Produce(s, nil, DefaultOptions()); !errors.Is(err, schedule.ErrInvalidSeason) {
		t.Fatalf("expected ErrInvalidSeason, got %v", err)
	}
}

func TestProduce_Idempotent(t *testing.T) {
	t.Parallel()
	s := samplePlan()
	s.Years[0].Fall.Courses = append(s.Years[0].Fall.Courses, crs("CS", 2500, 4))
	transfers := []course.Course{crs("CS", 1800, 4)}
	a, errA := Produce(s, transfers, DefaultOptions())
	b, errB := Produce(s, transfers, DefaultOptions())
	if errA != nil || errB != nil {
		t.Fatalf("Produce errors: %v %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("warning passes differ:\n%+v\n%+v", a, b)
	}
}

func TestPrerequisiteGraph(t *testing.T) {
	t.Parallel()
	courses := []course.Course{
		withPrereq(crs("CS", 3500, 4), course.And(course.Leaf("CS", 2510))),
		withPrereq(crs("CS", 2510, 4), course.Or(course.Leaf("CS", 2500), course.Leaf("CS", 1210))),
		crs("CS", 2500, 4),
	}
	g, err := PrerequisiteGraph(courses)
	if err != nil {
		t.Fatalf("PrerequisiteGraph: %v", err)
	}
	order, err := g.TopologicalOrdering()
	if err != nil {
		t.Fatalf("TopologicalOrdering: %v", err)
	}
	if want := []string{"CS2500", "CS2510", "CS3500"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if g.HasVertex("CS1210") {
		t.Error("unscheduled prerequisite should not become a vertex")
	}
}
