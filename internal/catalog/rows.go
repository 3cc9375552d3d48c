package catalog

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/requirement"
)

// RowKind is the grammar a course-list row follows.
type RowKind int

const (
	// RowNone carries no course data.
	RowNone RowKind = iota
	// RowAnd lists courses that are all required together.
	RowAnd
	// RowOr lists alternative courses.
	RowOr
	// RowRange describes a subject id range in a comment.
	RowRange
	// RowCourse names a single required course.
	RowCourse
)

// String returns the row kind's name.
func (k RowKind) String() string {
	switch k {
	case RowNone:
		return "none"
	case RowAnd:
		return "and"
	case RowOr:
		return "or"
	case RowRange:
		return "range"
	case RowCourse:
		return "course"
	default:
		return "RowKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ClassifyRow decides which grammar row follows. A row without any anchor
// carries no course data.
func ClassifyRow(row *goquery.Selection) RowKind {
	if row.Find("a").Length() == 0 {
		return RowNone
	}
	code := row.Find("td.codecol span")
	if code.Length() != 0 {
		text := code.Text()
		switch {
		case strings.Contains(text, "and"):
			return RowAnd
		case strings.Contains(text, "or"):
			return RowOr
		}
		return RowCourse
	}
	if row.Find("span.courselistcomment").Length() != 0 {
		return RowRange
	}
	return RowCourse
}

// ParseRow converts a row into a requirement or a subject range. Both are
// nil when the row holds nothing parsable.
func ParseRow(row *goquery.Selection) (*requirement.Requirement, *requirement.SubjectRange) {
	switch ClassifyRow(row) {
	case RowAnd:
		return parseListRow(row, requirement.TypeAnd), nil
	case RowOr:
		return parseListRow(row, requirement.TypeOr), nil
	case RowRange:
		return nil, parseRangeRow(row)
	case RowCourse:
		return parseCourseRow(row), nil
	default:
		return nil, nil
	}
}

func parseListRow(row *goquery.Selection, t requirement.Type) *requirement.Requirement {
	r := requirement.Requirement{Type: t}
	row.Find("td.codecol a").Each(func(_ int, a *goquery.Selection) {
		if ref, ok := parseAnchor(a); ok {
			r.Courses = append(r.Courses, requirement.Course(ref.Subject, ref.ClassID))
		}
	})
	if len(r.Courses) == 0 {
		return nil
	}
	return &r
}

func parseRangeRow(row *goquery.Selection) *requirement.SubjectRange {
	comment := row.Find("span.courselistcomment")
	anchors := comment.Find("a")
	if anchors.Length() == 0 {
		return nil
	}
	lower, ok := parseAnchor(anchors.First())
	if !ok {
		return nil
	}
	sr := requirement.SubjectRange{Subject: lower.Subject, IDRangeStart: lower.ClassID, IDRangeEnd: 9999}
	if !strings.Contains(comment.Text(), "or higher") && anchors.Length() > 1 {
		if upper, ok := parseAnchor(anchors.Eq(1)); ok {
			sr.IDRangeEnd = upper.ClassID
		}
	}
	return &sr
}

func parseCourseRow(row *goquery.Selection) *requirement.Requirement {
	ref, ok := parseAnchor(row.Find("td.codecol a").First())
	if !ok {
		return nil
	}
	r := requirement.Course(ref.Subject, ref.ClassID)
	return &r
}

// parseAnchor reads a course code such as "CS&nbsp;2500" from an anchor.
func parseAnchor(a *goquery.Selection) (course.Ref, bool) {
	text := a.Text()
	// Fields splits on non-breaking spaces as well.
	if fields := strings.Fields(text); len(fields) > 1 {
		parts, err := EnsureLength(2, fields)
		if err != nil {
			return course.Ref{}, false
		}
		text = parts[0] + parts[1]
	}
	ref, err := course.ParseCode(text)
	if err != nil {
		return course.Ref{}, false
	}
	return ref, true
}
