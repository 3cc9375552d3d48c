// Package planfile reads and writes the TOML files the CLI works with:
// plans, majors, course catalogs, and catalog hierarchies.
package planfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/degreeplan/internal/catalog"
	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/requirement"
	"github.com/papapumpkin/degreeplan/internal/schedule"
)

// Plan is a student's plan file.
type Plan struct {
	Major         string          `toml:"major,omitempty"`
	Concentration string          `toml:"concentration,omitempty"`
	Transfer      []course.Course `toml:"transfer,omitempty"`
	Years         []schedule.Year `toml:"years"`
}

// Schedule returns the plan's years as a schedule.
func (p *Plan) Schedule() schedule.Schedule {
	return schedule.Schedule{Years: p.Years}
}

// catalogFile is the layout of a course catalog file.
type catalogFile struct {
	Courses []course.Course `toml:"courses"`
}

// Kind tells the file layouts apart.
type Kind string

// Known file layouts.
const (
	KindPlan      Kind = "plan"
	KindMajor     Kind = "major"
	KindCourses   Kind = "courses"
	KindHierarchy Kind = "hierarchy"
)

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	var p Plan
	if err := decode(path, &p); err != nil {
		return nil, err
	}
	if err := Join(ValidatePlan(&p, filepath.Base(path))); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadMajor reads and validates a major file.
func LoadMajor(path string) (*requirement.Major, error) {
	var m requirement.Major
	if err := decode(path, &m); err != nil {
		return nil, err
	}
	if err := Join(ValidateMajor(&m, filepath.Base(path))); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadCourses reads and validates a course catalog file.
func LoadCourses(path string) ([]course.Course, error) {
	var f catalogFile
	if err := decode(path, &f); err != nil {
		return nil, err
	}
	if err := Join(ValidateCourses(f.Courses, filepath.Base(path))); err != nil {
		return nil, err
	}
	return f.Courses, nil
}

// LoadHierarchy reads a catalog hierarchy of nested tables with URL
// leaves.
func LoadHierarchy(path string) (catalog.Hierarchy, error) {
	var m map[string]any
	if err := decode(path, &m); err != nil {
		return nil, err
	}
	h, err := catalog.HierarchyFromMap(m)
	if err != nil {
		return nil, fmt.Errorf("planfile: %s: %w", filepath.Base(path), err)
	}
	return h, nil
}

// WriteMajor writes m as TOML to path, creating parent directories.
func WriteMajor(path string, m requirement.Major) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("planfile: marshal major %q: %w", m.Name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("planfile: create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("planfile: write %s: %w", path, err)
	}
	return nil
}

// Detect guesses a file's layout from its top-level keys.
func Detect(path string) (Kind, error) {
	var m map[string]any
	if err := decode(path, &m); err != nil {
		return "", err
	}
	switch {
	case m["years"] != nil:
		return KindPlan, nil
	case m["groups"] != nil:
		return KindMajor, nil
	case m["courses"] != nil:
		return KindCourses, nil
	case len(m) > 0:
		return KindHierarchy, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, filepath.Base(path))
	}
}

// Validate loads path with the loader for its layout and returns every
// validation problem found.
func Validate(path string) (Kind, error) {
	kind, err := Detect(path)
	if err != nil {
		return "", err
	}
	switch kind {
	case KindPlan:
		_, err = LoadPlan(path)
	case KindMajor:
		_, err = LoadMajor(path)
	case KindCourses:
		_, err = LoadCourses(path)
	case KindHierarchy:
		_, err = LoadHierarchy(path)
	}
	return kind, err
}

func decode(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoFile, path)
		}
		return fmt.Errorf("planfile: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("planfile: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
