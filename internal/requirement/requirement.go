// Package requirement models major and concentration requirement trees and
// evaluates a schedule against them, allocating each taken course to at
// most one requirement.
package requirement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/papapumpkin/degreeplan/internal/course"
)

var (
	// ErrUnknownGroupType is returned when a group is not AND, OR or RANGE.
	ErrUnknownGroupType = errors.New("unknown requirement group type")
	// ErrUnknownRequirementType is returned for a requirement node of
	// unrecognized type.
	ErrUnknownRequirementType = errors.New("unknown requirement type")
	// ErrDuplicateGroup is returned when two groups share a name.
	ErrDuplicateGroup = errors.New("duplicate requirement group")
	// ErrMissingRange is returned when a RANGE group carries no range.
	ErrMissingRange = errors.New("range group has no range requirement")
)

// Type tags a requirement node.
type Type string

// Requirement node types.
const (
	TypeCourse  Type = "COURSE"
	TypeAnd     Type = "AND"
	TypeOr      Type = "OR"
	TypeRange   Type = "RANGE"
	TypeCredits Type = "CREDITS"
)

// SubjectRange is an inclusive interval of class ids within one subject.
type SubjectRange struct {
	Subject      string `toml:"subject" json:"subject"`
	IDRangeStart int    `toml:"id_range_start" json:"idRangeStart"`
	IDRangeEnd   int    `toml:"id_range_end" json:"idRangeEnd"`
}

// Contains reports whether c falls inside the range.
func (r SubjectRange) Contains(c course.Ref) bool {
	return r.Subject == c.Subject && r.IDRangeStart <= c.ClassID && c.ClassID <= r.IDRangeEnd
}

// String renders the range as "CS 1000-1999".
func (r SubjectRange) String() string {
	return r.Subject + " " + strconv.Itoa(r.IDRangeStart) + "-" + strconv.Itoa(r.IDRangeEnd)
}

// Requirement is one node of a requirement tree. Type selects which of the
// remaining fields are meaningful:
//
//	COURSE   Subject, ClassID
//	AND, OR  Courses
//	RANGE    Ranges, CreditsRequired
//	CREDITS  Courses, MinCredits, MaxCredits (zero means no upper bound)
type Requirement struct {
	Type            Type           `toml:"type" json:"type"`
	Subject         string         `toml:"subject,omitempty" json:"subject,omitempty"`
	ClassID         int            `toml:"class_id,omitempty" json:"classId,omitempty"`
	Courses         []Requirement  `toml:"courses,omitempty" json:"courses,omitempty"`
	Ranges          []SubjectRange `toml:"ranges,omitempty" json:"ranges,omitempty"`
	CreditsRequired int            `toml:"credits_required,omitempty" json:"creditsRequired,omitempty"`
	MinCredits      int            `toml:"min_credits,omitempty" json:"minCredits,omitempty"`
	MaxCredits      int            `toml:"max_credits,omitempty" json:"maxCredits,omitempty"`
}

// Course returns a COURSE requirement.
func Course(subject string, classID int) Requirement {
	return Requirement{Type: TypeCourse, Subject: subject, ClassID: classID}
}

// And returns an AND requirement over children.
func And(children ...Requirement) Requirement {
	return Requirement{Type: TypeAnd, Courses: children}
}

// Or returns an OR requirement over children.
func Or(children ...Requirement) Requirement {
	return Requirement{Type: TypeOr, Courses: children}
}

// Range returns a RANGE requirement.
func Range(creditsRequired int, ranges ...SubjectRange) Requirement {
	return Requirement{Type: TypeRange, Ranges: ranges, CreditsRequired: creditsRequired}
}

// Credits returns a CREDITS requirement over children.
func Credits(minCredits, maxCredits int, children ...Requirement) Requirement {
	return Requirement{Type: TypeCredits, Courses: children, MinCredits: minCredits, MaxCredits: maxCredits}
}

// Ref returns the course reference of a COURSE node.
func (r Requirement) Ref() course.Ref {
	return course.Ref{Subject: r.Subject, ClassID: r.ClassID}
}

// Flatten returns every COURSE node beneath r, depth first. RANGE nodes
// contribute nothing.
func (r Requirement) Flatten() []course.Ref {
	switch r.Type {
	case TypeCourse:
		return []course.Ref{r.Ref()}
	case TypeAnd, TypeOr, TypeCredits:
		var out []course.Ref
		for _, c := range r.Courses {
			out = append(out, c.Flatten()...)
		}
		return out
	default:
		return nil
	}
}

// GroupType tags a top-level requirement group.
type GroupType string

// Group types.
const (
	GroupAnd   GroupType = "AND"
	GroupOr    GroupType = "OR"
	GroupRange GroupType = "RANGE"
)

// Group is a named top-level block of a major's requirements.
type Group struct {
	Name          string        `toml:"name" json:"name"`
	Type          GroupType     `toml:"type" json:"type"`
	Requirements  []Requirement `toml:"requirements,omitempty" json:"requirements,omitempty"`
	NumCreditsMin int           `toml:"num_credits_min,omitempty" json:"numCreditsMin,omitempty"`
	NumCreditsMax int           `toml:"num_credits_max,omitempty" json:"numCreditsMax,omitempty"`
	Range         *Requirement  `toml:"range,omitempty" json:"range,omitempty"`
}

// Concentration is a named set of groups evaluated alongside a major.
type Concentration struct {
	Name   string  `toml:"name" json:"name"`
	Groups []Group `toml:"groups" json:"requirementGroups"`
}

// Major is a degree program and its ordered requirement groups.
type Major struct {
	Name           string          `toml:"name" json:"name"`
	YearVersion    int             `toml:"year_version,omitempty" json:"yearVersion,omitempty"`
	Groups         []Group         `toml:"groups" json:"requirementGroups"`
	Concentrations []Concentration `toml:"concentrations,omitempty" json:"concentrations,omitempty"`
}

// RequirementGroups returns the group names in declared order.
func (m Major) RequirementGroups() []string {
	names := make([]string, len(m.Groups))
	for i, g := range m.Groups {
		names[i] = g.Name
	}
	return names
}

// RequirementGroupMap returns the groups keyed by name.
func (m Major) RequirementGroupMap() map[string]Group {
	out := make(map[string]Group, len(m.Groups))
	for _, g := range m.Groups {
		out[g.Name] = g
	}
	return out
}

// Concentration returns the named concentration.
func (m Major) Concentration(name string) (*Concentration, bool) {
	for i := range m.Concentrations {
		if strings.EqualFold(m.Concentrations[i].Name, name) {
			return &m.Concentrations[i], true
		}
	}
	return nil, false
}

// Validate checks the structural integrity of the major and all of its
// concentrations, reporting every problem found.
func (m Major) Validate() error {
	var errs []error
	errs = append(errs, validateGroups(m.Name, m.Groups)...)
	for _, c := range m.Concentrations {
		errs = append(errs, validateGroups(m.Name+"/"+c.Name, c.Groups)...)
	}
	return errors.Join(errs...)
}

func validateGroups(owner string, groups []Group) []error {
	var errs []error
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if seen[g.Name] {
			errs = append(errs, fmt.Errorf("%w: %s: %q", ErrDuplicateGroup, owner, g.Name))
		}
		seen[g.Name] = true
		switch g.Type {
		case GroupAnd, GroupOr:
			for _, r := range g.Requirements {
				errs = append(errs, validateRequirement(owner+": "+g.Name, r)...)
			}
		case GroupRange:
			if g.Range == nil {
				errs = append(errs, fmt.Errorf("%w: %s: %q", ErrMissingRange, owner, g.Name))
				continue
			}
			errs = append(errs, validateRequirement(owner+": "+g.Name, *g.Range)...)
		default:
			errs = append(errs, fmt.Errorf("%w: %s: %q has type %q", ErrUnknownGroupType, owner, g.Name, g.Type))
		}
	}
	return errs
}

func validateRequirement(where string, r Requirement) []error {
	switch r.Type {
	case TypeCourse, TypeRange:
		return nil
	case TypeAnd, TypeOr, TypeCredits:
		var errs []error
		for _, c := range r.Courses {
			errs = append(errs, validateRequirement(where, c)...)
		}
		return errs
	default:
		return []error{fmt.Errorf("%w: %s: %q", ErrUnknownRequirementType, where, r.Type)}
	}
}
