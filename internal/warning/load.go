package warning

import (
	"fmt"

	"github.com/papapumpkin/degreeplan/internal/schedule"
)

// Band is an inclusive credit range for one term.
type Band struct {
	Min int
	Max int
}

// Bands holds the credit band for each season plus the coop band.
type Bands struct {
	Fall       Band
	Spring     Band
	Summer1    Band
	Summer2    Band
	SummerFull Band
	Coop       Band
}

// DefaultBands returns the registrar's standard credit bands.
func DefaultBands() Bands {
	return Bands{
		Fall:       Band{Min: 12, Max: 18},
		Spring:     Band{Min: 12, Max: 18},
		Summer1:    Band{Min: 4, Max: 9},
		Summer2:    Band{Min: 4, Max: 9},
		SummerFull: Band{Min: 12, Max: 18},
		Coop:       Band{Min: 0, Max: 5},
	}
}

// For returns the band that applies to a term of the given season and
// status. ok is false for statuses that are never load-checked.
func (b Bands) For(season schedule.Season, status schedule.Status) (Band, bool) {
	switch status {
	case schedule.StatusCoop:
		return b.Coop, true
	case schedule.StatusClasses:
	default:
		return Band{}, false
	}
	switch season {
	case schedule.Fall:
		return b.Fall, true
	case schedule.Spring:
		return b.Spring, true
	case schedule.Summer1:
		return b.Summer1, true
	case schedule.Summer2:
		return b.Summer2, true
	case schedule.SummerFull:
		return b.SummerFull, true
	default:
		return Band{}, false
	}
}

// Load checks the term's minimum-credit sum against its band. Under
// enrollment is only reported for a non-empty term.
func Load(t schedule.Term, termID int, bands Bands) []Warning {
	band, ok := bands.For(t.Season, t.Status)
	if !ok {
		return nil
	}
	sum := 0
	for _, c := range t.Courses {
		sum += c.CreditsMin
	}

	var out []Warning
	if sum > 0 && sum < band.Min {
		out = append(out, Warning{
			Message: fmt.Sprintf("Currently enrolled in %d credits(s). May be under-enrolled. Minimum credits for this term %d.", sum, band.Min),
			TermID:  termID,
		})
	}
	if sum > band.Max {
		out = append(out, Warning{
			Message: fmt.Sprintf("Currently enrolled in %d credit(s). May be over-enrolled. Maximum credits for this term %d.", sum, band.Max),
			TermID:  termID,
		})
	}
	return out
}
