// Package warning produces the schedule-level and course-level warnings of
// a plan: term credit load, prerequisites, corequisites and duplicates.
package warning

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/schedule"
	"github.com/papapumpkin/degreeplan/internal/tracker"
)

// Warning is a schedule-level warning attached to a term.
type Warning struct {
	Message string `json:"message"`
	TermID  int    `json:"termId"`
}

// CourseWarning is a warning about one course in one term.
type CourseWarning struct {
	Subject string `json:"subject"`
	ClassID int    `json:"classId"`
	Message string `json:"message"`
	TermID  int    `json:"termId"`
}

// Container holds the result of a full warning pass.
type Container struct {
	NormalWarnings []Warning       `json:"normalWarnings"`
	CourseWarnings []CourseWarning `json:"courseWarnings"`
}

// Ordering selects which courses count toward a term's prerequisites.
type Ordering string

const (
	// Chronological counts transfer credit and strictly earlier terms.
	Chronological Ordering = "chronological"
	// Lenient counts every course anywhere in the plan.
	Lenient Ordering = "lenient"
)

// DefaultFillers are placeholder codes never reported as duplicates.
var DefaultFillers = []string{"XXXX9999"}

// Options configures a warning pass.
type Options struct {
	Bands    Bands
	Fillers  []string
	Ordering Ordering
	Logger   *zap.Logger
}

// DefaultOptions returns the standard bands, fillers and chronological
// prerequisite ordering.
func DefaultOptions() Options {
	return Options{
		Bands:    DefaultBands(),
		Fillers:  DefaultFillers,
		Ordering: Chronological,
	}
}

// Produce walks s term by term and returns every load, corequisite,
// prerequisite and duplicate warning. Transfer credit is attributed to the
// fall term of the earliest year. Blank terms are skipped. The only error
// is an invalid season.
func Produce(s schedule.Schedule, transfers []course.Course, opts Options) (Container, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tr := tracker.New()
	firstID, ok, err := s.FirstTermID()
	if err != nil {
		return Container{}, fmt.Errorf("warning: first term: %w", err)
	}
	if ok {
		tr.AddCourses(transfers, firstID)
	}

	var prereqs Index = tr
	if opts.Ordering == Lenient {
		full, err := fullTracker(s, transfers, firstID)
		if err != nil {
			return Container{}, err
		}
		prereqs = full
	}

	var c Container
	for _, y := range s.Ordered() {
		for _, t := range y.Terms() {
			if t.Blank() {
				continue
			}
			id, err := t.ID()
			if err != nil {
				return Container{}, fmt.Errorf("warning: year %d: %w", y.Year, err)
			}
			c.NormalWarnings = append(c.NormalWarnings, Load(t, id, opts.Bands)...)
			if !t.Tracked() {
				continue
			}
			c.CourseWarnings = append(c.CourseWarnings, CheckCorequisites(t.Courses, id)...)
			c.CourseWarnings = append(c.CourseWarnings, CheckPrerequisites(t.Courses, prereqs, id)...)
			tr.AddCourses(t.Courses, id)
		}
	}
	c.CourseWarnings = append(c.CourseWarnings, Duplicates(tr, opts.Fillers)...)

	log.Debug("warnings produced",
		zap.Int("years", len(s.Years)),
		zap.Int("courses", tr.Len()),
		zap.Int("normal", len(c.NormalWarnings)),
		zap.Int("course", len(c.CourseWarnings)),
		zap.String("ordering", string(opts.Ordering)))
	return c, nil
}

func fullTracker(s schedule.Schedule, transfers []course.Course, firstID int) (*tracker.Tracker, error) {
	full := tracker.New()
	full.AddCourses(transfers, firstID)
	for _, y := range s.Ordered() {
		for _, t := range y.Terms() {
			if t.Blank() || !t.Tracked() {
				continue
			}
			id, err := t.ID()
			if err != nil {
				return nil, fmt.Errorf("warning: year %d: %w", y.Year, err)
			}
			full.AddCourses(t.Courses, id)
		}
	}
	return full, nil
}
