package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/papapumpkin/degreeplan/internal/requirement"
)

// ErrNoTable is returned when a page has no course-list table.
var ErrNoTable = errors.New("catalog: no course list table")

// DefaultSectionCredits is the credit minimum assumed for an OR or RANGE
// section whose header states no hours.
const DefaultSectionCredits = 4

// section accumulates the rows between two area headers.
type section struct {
	name   string
	hours  int
	choose bool
	reqs   []requirement.Requirement
	ranges []requirement.SubjectRange
}

// CompileTables turns every course-list table of doc into requirement
// groups. Area-header rows start a new section. A section whose header
// reads "... of the following" becomes an OR group, a section with range
// rows becomes a RANGE group, and any other section an AND group.
func CompileTables(doc *goquery.Document) ([]requirement.Group, error) {
	tables := doc.Find("table.sc_courselist")
	if tables.Length() == 0 {
		return nil, ErrNoTable
	}

	var groups []requirement.Group
	names := make(map[string]int)
	emit := func(s *section) {
		for _, g := range s.groups() {
			names[g.Name]++
			if n := names[g.Name]; n > 1 {
				g.Name += " (" + strconv.Itoa(n) + ")"
			}
			groups = append(groups, g)
		}
	}

	tables.Each(func(_ int, table *goquery.Selection) {
		cur := &section{name: tableHeading(table)}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			if isAreaHeader(row) {
				emit(cur)
				cur = newSection(row)
				return
			}
			req, sr := ParseRow(row)
			switch {
			case sr != nil:
				cur.ranges = append(cur.ranges, *sr)
			case req != nil && row.HasClass("orclass") && len(cur.reqs) > 0:
				cur.reqs[len(cur.reqs)-1] = mergeOr(cur.reqs[len(cur.reqs)-1], *req)
			case req != nil:
				cur.reqs = append(cur.reqs, *req)
			}
		})
		emit(cur)
	})
	return groups, nil
}

// CompileMajor compiles a catalog page into a major named after its title.
func CompileMajor(doc *goquery.Document) (requirement.Major, error) {
	groups, err := CompileTables(doc)
	if err != nil {
		return requirement.Major{}, err
	}
	return requirement.Major{Name: Title(doc), Groups: groups}, nil
}

func (s *section) groups() []requirement.Group {
	credits := s.hours
	if credits == 0 {
		credits = DefaultSectionCredits
	}
	var out []requirement.Group
	if len(s.reqs) > 0 {
		g := requirement.Group{Name: s.name, Type: requirement.GroupAnd, Requirements: s.reqs}
		if s.choose {
			g.Type = requirement.GroupOr
			g.NumCreditsMin = credits
			g.NumCreditsMax = credits
		}
		out = append(out, g)
	}
	if len(s.ranges) > 0 {
		name := s.name
		if len(out) > 0 {
			name += " Electives"
		}
		rng := requirement.Range(credits, s.ranges...)
		out = append(out, requirement.Group{
			Name:          name,
			Type:          requirement.GroupRange,
			NumCreditsMin: credits,
			NumCreditsMax: credits,
			Range:         &rng,
		})
	}
	return out
}

func newSection(row *goquery.Selection) *section {
	name := ParseText(row.Find("td").First())
	if name == "" {
		name = ParseText(row)
	}
	s := &section{name: name}
	if h, ok := parseHours(ParseText(row.Find("td.hourscol"))); ok {
		s.hours = h
	}
	s.choose = strings.Contains(strings.ToLower(name), "of the following")
	return s
}

func isAreaHeader(row *goquery.Selection) bool {
	return row.HasClass("areaheader") || row.Find("span.areaheader").Length() > 0
}

// tableHeading names a table's leading section after the closest heading
// before it.
func tableHeading(table *goquery.Selection) string {
	if h := ParseText(table.PrevAllFiltered("h2, h3").First()); h != "" {
		return h
	}
	return "Requirements"
}

// mergeOr folds an "or ..." row into the requirement before it.
func mergeOr(prev, next requirement.Requirement) requirement.Requirement {
	if prev.Type == requirement.TypeOr {
		prev.Courses = append(prev.Courses, next)
		return prev
	}
	return requirement.Or(prev, next)
}
