// Package nupath reports coverage of the NUPath breadth requirements by
// the courses of a plan.
package nupath

import "github.com/papapumpkin/degreeplan/internal/course"

// Tag is one NUPath breadth attribute.
type Tag string

// The NUPath attributes in catalog order.
const (
	EngagingNaturalDesigned Tag = "ND"
	ExploringCreative       Tag = "EI"
	InterpretingCulture     Tag = "IC"
	QuantitativeReasoning   Tag = "FQ"
	SocietiesInstitutions   Tag = "SI"
	AnalyzingData           Tag = "AD"
	DifferenceDiversity     Tag = "DD"
	EthicalReasoning        Tag = "ER"
	FirstYearWriting        Tag = "WF"
	AdvancedWriting         Tag = "WD"
	WritingIntensive        Tag = "WI"
	IntegrationExperience   Tag = "EX"
	Capstone                Tag = "CE"
)

// All lists every tag in display order.
var All = []Tag{
	EngagingNaturalDesigned, ExploringCreative, InterpretingCulture,
	QuantitativeReasoning, SocietiesInstitutions, AnalyzingData,
	DifferenceDiversity, EthicalReasoning, FirstYearWriting,
	AdvancedWriting, WritingIntensive, IntegrationExperience, Capstone,
}

// required is how many courses must carry a tag. Unlisted tags need one.
var required = map[Tag]int{WritingIntensive: 2}

// Required returns how many courses must carry tag.
func Required(tag Tag) int {
	if n, ok := required[tag]; ok {
		return n
	}
	return 1
}

// Report is the coverage of every tag.
type Report struct {
	Counts   map[Tag]int `json:"counts"`
	Missing  []Tag       `json:"missing"`
	Complete bool        `json:"complete"`
}

// Coverage counts the tags carried by courses. A course listed twice is
// counted twice.
func Coverage(courses []course.Course) Report {
	r := Report{Counts: make(map[Tag]int, len(All))}
	for _, c := range courses {
		for _, p := range c.NUPaths {
			r.Counts[Tag(p)]++
		}
	}
	for _, tag := range All {
		if r.Counts[tag] < Required(tag) {
			r.Missing = append(r.Missing, tag)
		}
	}
	r.Complete = len(r.Missing) == 0
	return r
}
