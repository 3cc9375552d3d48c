package planfile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/requirement"
	"github.com/papapumpkin/degreeplan/internal/schedule"
)

var validate = newValidator()

// newValidator reports fields by their TOML key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePlan checks every term and course of p.
func ValidatePlan(p *Plan, source string) []ValidationError {
	var errs []ValidationError
	for i, c := range p.Transfer {
		errs = append(errs, structErrors(source, fmt.Sprintf("transfer[%d]", i), c)...)
	}
	for yi, y := range p.Years {
		if y.Year <= 0 {
			errs = append(errs, ValidationError{
				Category: CatMissingField,
				Source:   source,
				Field:    fmt.Sprintf("years[%d].year", yi),
				Err:      fmt.Errorf("%w: year", ErrMissingField),
			})
		}
		terms := []struct {
			key  string
			term schedule.Term
		}{
			{"fall", y.Fall}, {"spring", y.Spring}, {"summer1", y.Summer1}, {"summer2", y.Summer2},
		}
		for _, t := range terms {
			prefix := fmt.Sprintf("years[%d].%s", yi, t.key)
			errs = append(errs, structErrors(source, prefix, t.term)...)
			if len(t.term.Courses) > 0 && t.term.Season == "" {
				errs = append(errs, ValidationError{
					Category: CatMissingField,
					Source:   source,
					Field:    prefix + ".season",
					Err:      fmt.Errorf("%w: season of a term with courses", ErrMissingField),
				})
			}
			for ci, c := range t.term.Courses {
				errs = append(errs, structErrors(source, fmt.Sprintf("%s.courses[%d]", prefix, ci), c)...)
			}
		}
	}
	return errs
}

// ValidateMajor checks m's name and requirement structure.
func ValidateMajor(m *requirement.Major, source string) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, ValidationError{
			Category: CatMissingField,
			Source:   source,
			Field:    "name",
			Err:      fmt.Errorf("%w: name", ErrMissingField),
		})
	}
	for _, err := range unjoin(m.Validate()) {
		errs = append(errs, ValidationError{Category: CatStructure, Source: source, Err: err})
	}
	return errs
}

// ValidateCourses checks every catalog course.
func ValidateCourses(courses []course.Course, source string) []ValidationError {
	var errs []ValidationError
	for i, c := range courses {
		errs = append(errs, structErrors(source, fmt.Sprintf("courses[%d]", i), c)...)
		if c.CreditsMax < c.CreditsMin {
			errs = append(errs, ValidationError{
				Category: CatInvalidField,
				Source:   source,
				Field:    fmt.Sprintf("courses[%d].credits_max", i),
				Err:      fmt.Errorf("%w: credits_max %d below credits_min %d", ErrInvalidField, c.CreditsMax, c.CreditsMin),
			})
		}
	}
	return errs
}

func structErrors(source, prefix string, v any) []ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Category: CatInvalidField, Source: source, Field: prefix, Err: err}}
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		cat := CatInvalidField
		sentinel := ErrInvalidField
		if fe.Tag() == "required" {
			cat, sentinel = CatMissingField, ErrMissingField
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out = append(out, ValidationError{
			Category: cat,
			Source:   source,
			Field:    prefix + "." + fe.Field(),
			Err:      fmt.Errorf("%w: %v fails %s", sentinel, fe.Value(), rule),
		})
	}
	return out
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
