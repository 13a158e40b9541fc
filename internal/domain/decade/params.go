package decade

import (
	"fmt"
	"strings"
)

// YearRange is an inclusive [Min, Max] bound on the season year.
type YearRange struct {
	Min int
	Max int
}

// Contains reports whether year lies inside the range, bounds included.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Params selects what Aggregate summarises.
type Params struct {
	// MetricField names the numeric column to average.
	MetricField string
	// Years drops records outside the inclusive range.
	Years YearRange
	// Leagues is the set of accepted league ids. Its order is also the
	// column order of the pivoted table.
	Leagues []string
}

// Validate checks that the params can describe a non-trivial aggregation.
func (p Params) Validate() error {
	if strings.TrimSpace(p.MetricField) == "" {
		return fmt.Errorf("%w: metric field must not be empty", ErrInvalidParams)
	}
	if p.Years.Min > p.Years.Max {
		return fmt.Errorf("%w: year range %d-%d is inverted", ErrInvalidParams, p.Years.Min, p.Years.Max)
	}
	if len(p.Leagues) == 0 {
		return fmt.Errorf("%w: at least one league is required", ErrInvalidParams)
	}
	return nil
}

// leagueIndex maps every allowed league to its position in p.Leagues.
// Duplicates keep their first position.
func (p Params) leagueIndex() map[string]int {
	idx := make(map[string]int, len(p.Leagues))
	for i, l := range p.Leagues {
		if _, seen := idx[l]; !seen {
			idx[l] = i
		}
	}
	return idx
}
