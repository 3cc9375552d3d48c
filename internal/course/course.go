// Package course defines canonical course identity, requisite expressions,
// and the lookup contract used to resolve a bare reference to catalog data.
package course

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidCode is returned when a string cannot be split into a subject
// and a numeric class id.
var ErrInvalidCode = errors.New("invalid course code")

// Ref identifies a course by subject and numeric id.
type Ref struct {
	Subject string `toml:"subject" json:"subject" validate:"required,min=2,max=4,uppercase"`
	ClassID int    `toml:"class_id" json:"classId" validate:"min=1000,max=9999"`
}

// Code returns the canonical course code, e.g. "CS2500".
func (r Ref) Code() string {
	return r.Subject + strconv.Itoa(r.ClassID)
}

// Equal reports whether two references name the same course.
func (r Ref) Equal(o Ref) bool {
	return r.Code() == o.Code()
}

// String returns the course code with a space, as in "CS 2500".
func (r Ref) String() string {
	return r.Subject + " " + strconv.Itoa(r.ClassID)
}

// ParseCode splits a code such as "CS2500" or "cs 2500" into a Ref.
func ParseCode(code string) (Ref, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(code), ""))
	i := strings.IndexFunc(s, unicode.IsDigit)
	if i <= 0 {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	id, err := strconv.Atoi(s[i:])
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	for _, r := range s[:i] {
		if !unicode.IsLetter(r) {
			return Ref{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return Ref{Subject: s[:i], ClassID: id}, nil
}

// Course is a scheduled or catalog course with its credit range and
// requisites.
type Course struct {
	Ref
	Name       string   `toml:"name,omitempty" json:"name,omitempty"`
	CreditsMin int      `toml:"credits_min" json:"numCreditsMin" validate:"min=0"`
	CreditsMax int      `toml:"credits_max" json:"numCreditsMax" validate:"min=0"`
	NUPaths    []string `toml:"nupaths,omitempty" json:"nupaths,omitempty"`
	Prereqs    *Expr    `toml:"prereqs,omitempty" json:"prereqs,omitempty"`
	Coreqs     *Expr    `toml:"coreqs,omitempty" json:"coreqs,omitempty"`
}

// HasCatalogData reports whether the course carries any credit, name, or
// requisite information of its own.
func (c Course) HasCatalogData() bool {
	return c.CreditsMin != 0 || c.CreditsMax != 0 || c.Name != "" || c.Prereqs != nil || c.Coreqs != nil
}

// Clone returns a copy of c that shares no slices or requisite trees with
// it.
func (c Course) Clone() Course {
	c.NUPaths = slices.Clone(c.NUPaths)
	c.Prereqs = cloneExpr(c.Prereqs)
	c.Coreqs = cloneExpr(c.Coreqs)
	return c
}

func cloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	cp := e.Clone()
	return &cp
}

// Lookup resolves a course reference to its catalog entry. Implementations
// return (nil, nil) when the course is unknown.
type Lookup interface {
	FetchCourse(ctx context.Context, subject string, classID int) (*Course, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, subject string, classID int) (*Course, error)

// FetchCourse calls f.
func (f LookupFunc) FetchCourse(ctx context.Context, subject string, classID int) (*Course, error) {
	return f(ctx, subject, classID)
}
