// Package schedule models a multi-year plan of terms and derives the
// registrar term ids used to attribute courses to terms.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/papapumpkin/degreeplan/internal/course"
)

// ErrInvalidSeason is returned when a term carries a season outside the
// Season enumeration.
var ErrInvalidSeason = errors.New("invalid season")

// Season is the catalog season code of a term.
type Season string

// Valid seasons. SM is a full-length summer term used when a year's
// summer is not split.
const (
	Fall       Season = "FL"
	Spring     Season = "SP"
	Summer1    Season = "S1"
	Summer2    Season = "S2"
	SummerFull Season = "SM"
)

// Status describes what a student is doing in a term.
type Status string

// Term statuses. The hover variants mirror transient drag states of the
// planner and are tracked but never load-checked.
const (
	StatusClasses       Status = "CLASSES"
	StatusCoop          Status = "COOP"
	StatusInactive      Status = "INACTIVE"
	StatusHoverInactive Status = "HOVERINACTIVE"
	StatusClassesHover  Status = "CLASSESHOVER"
	StatusCoopHover     Status = "COOPHOVER"
)

// TermID derives the six-digit term id for a season and year. Years may
// be given as two or four digits. Fall rolls into the next academic year,
// so TermID(Fall, 18) is 201910.
func TermID(season Season, year int) (int, error) {
	base := 2000 + year%100
	switch season {
	case Fall:
		return (base+1)*100 + 10, nil
	case Spring:
		return base*100 + 30, nil
	case Summer1:
		return base*100 + 40, nil
	case SummerFull:
		return base*100 + 50, nil
	case Summer2:
		return base*100 + 60, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, season)
	}
}

// Term is one term of a schedule year.
type Term struct {
	Season  Season          `toml:"season" json:"season" validate:"omitempty,oneof=FL SP S1 S2 SM"`
	Year    int             `toml:"year" json:"year" validate:"min=0"`
	Status  Status          `toml:"status" json:"status" validate:"omitempty,oneof=CLASSES COOP INACTIVE HOVERINACTIVE CLASSESHOVER COOPHOVER"`
	Courses []course.Course `toml:"courses,omitempty" json:"classes"`
}

// ID returns the term's derived term id.
func (t Term) ID() (int, error) {
	return TermID(t.Season, t.Year)
}

// Tracked reports whether the term's courses count toward the plan.
func (t Term) Tracked() bool {
	return t.Status != StatusInactive
}

// Blank reports whether the term was left out of the plan file: it has
// neither a season nor courses, so it has no term id and nothing to check.
func (t Term) Blank() bool {
	return t.Season == "" && len(t.Courses) == 0
}

// Year is one academic year of a schedule.
type Year struct {
	Year         int  `toml:"year" json:"year"`
	Fall         Term `toml:"fall" json:"fall"`
	Spring       Term `toml:"spring" json:"spring"`
	Summer1      Term `toml:"summer1" json:"summer1"`
	Summer2      Term `toml:"summer2" json:"summer2"`
	IsSummerFull bool `toml:"is_summer_full" json:"isSummerFull"`
}

// Terms returns the year's terms in walk order: fall, spring, summer1 and,
// unless the summer is a single full term, summer2.
func (y Year) Terms() []Term {
	if y.IsSummerFull {
		return []Term{y.Fall, y.Spring, y.Summer1}
	}
	return []Term{y.Fall, y.Spring, y.Summer1, y.Summer2}
}

// Schedule is a student's plan keyed by academic year.
type Schedule struct {
	Years []Year `toml:"years" json:"years"`
}

// Ordered returns the schedule's years sorted ascending by year number.
// The receiver is not modified.
func (s Schedule) Ordered() []Year {
	years := make([]Year, len(s.Years))
	copy(years, s.Years)
	sort.SliceStable(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years
}

// FirstTermID returns the id of the first term transfer credit is
// attributed to: the fall term of the earliest year, or the first
// non-blank term after it when that fall was left out. ok is false when
// the schedule has no non-blank term.
func (s Schedule) FirstTermID() (id int, ok bool, err error) {
	for _, y := range s.Ordered() {
		for _, t := range y.Terms() {
			if t.Blank() {
				continue
			}
			id, err = t.ID()
			if err != nil {
				return 0, false, err
			}
			return id, true, nil
		}
	}
	return 0, false, nil
}

// Courses returns every course of every tracked term in walk order.
func (s Schedule) Courses() []course.Course {
	var out []course.Course
	for _, y := range s.Ordered() {
		for _, t := range y.Terms() {
			if !t.Tracked() {
				continue
			}
			out = append(out, t.Courses...)
		}
	}
	return out
}

// Hydrate fills in catalog data for scheduled courses that carry none of
// their own. Courses the lookup does not know are left untouched.
func Hydrate(ctx context.Context, s *Schedule, l course.Lookup) error {
	for yi := range s.Years {
		y := &s.Years[yi]
		for _, t := range []*Term{&y.Fall, &y.Spring, &y.Summer1, &y.Summer2} {
			if err := hydrateCourses(ctx, t.Courses, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// HydrateCourses fills in catalog data for a flat course list such as
// transfer credit.
func HydrateCourses(ctx context.Context, courses []course.Course, l course.Lookup) error {
	return hydrateCourses(ctx, courses, l)
}

func hydrateCourses(ctx context.Context, courses []course.Course, l course.Lookup) error {
	for i := range courses {
		c := &courses[i]
		if c.HasCatalogData() {
			continue
		}
		found, err := l.FetchCourse(ctx, c.Subject, c.ClassID)
		if err != nil {
			return fmt.Errorf("schedule: resolve %s: %w", c.Code(), err)
		}
		if found == nil {
			continue
		}
		c.Name = found.Name
		c.CreditsMin = found.CreditsMin
		c.CreditsMax = found.CreditsMax
		c.NUPaths = found.NUPaths
		c.Prereqs = found.Prereqs
		c.Coreqs = found.Coreqs
	}
	return nil
}
