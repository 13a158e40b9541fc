// Package model contains domain models passed between layers.
package model

// Well-known column names of the team-season dataset.
const (
	ColumnYear     = "year"
	ColumnLeagueID = "league_id"
	ColumnTeamName = "team_name"
)

// Record represents one team-season row of input data.
// Metric values that were blank or non-numeric in the source are absent
// from Metrics rather than stored as zero.
type Record struct {
	Year     int                // season year, valid only when HasYear is set
	HasYear  bool               // false when the year cell was missing or not an integer
	LeagueID string             // league identifier, empty when missing
	TeamName string             // informational only
	Metrics  map[string]float64 // numeric columns keyed by normalised column name
}

// Metric returns the value of the named metric and whether it is present.
func (r Record) Metric(field string) (float64, bool) {
	if r.Metrics == nil {
		return 0, false
	}
	v, ok := r.Metrics[field]
	return v, ok
}
