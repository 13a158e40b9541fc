// Package decade computes per-decade, per-league summaries of a team-season
// metric.
//
// Aggregate is a pure function: it never mutates its input and two calls on
// the same input return identical results. Records that lack a year, a
// league, or a numeric metric value are dropped, never coerced. The mean is
// a plain arithmetic mean over team-seasons; it is not weighted by games
// played even though season lengths differ across eras.
package decade

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/okian/decades/internal/domain/model"
)

// Exclusion reasons reported in FilterStats.
const (
	ReasonMissingYear      = "missing_year"
	ReasonYearOutOfRange   = "year_out_of_range"
	ReasonLeagueNotAllowed = "league_not_allowed"
	ReasonMissingMetric    = "missing_metric"
)

// Row is one aggregated (decade, league) result.
type Row struct {
	Decade   int
	LeagueID string
	Mean     float64
	Count    int
}

// FilterStats records how many input records were kept and why the others
// were dropped. Each dropped record is counted under the first reason that
// applies, in the order year, range, league, metric.
type FilterStats struct {
	Total    int
	Kept     int
	Excluded map[string]int
}

// Result is the output of Aggregate.
type Result struct {
	MetricField string
	Rows        []Row
	Stats       FilterStats
}

// Empty reports whether no (decade, league) pair had a surviving record.
// This is the case when the metric column is unknown or everything was
// filtered out.
func (r Result) Empty() bool { return len(r.Rows) == 0 }

// Lookup returns the row for the given decade and league.
func (r Result) Lookup(decade int, league string) (Row, bool) {
	for _, row := range r.Rows {
		if row.Decade == decade && row.LeagueID == league {
			return row, true
		}
	}
	return Row{}, false
}

// Of returns the decade a year belongs to: the year rounded down to the
// nearest multiple of ten.
func Of(year int) int {
	return int(math.Floor(float64(year)/10)) * 10
}

type partitionKey struct {
	decade int
	league string
}

// Aggregate filters records by p and summarises the survivors per
// (decade, league). Rows are ordered by decade, then by the league's
// position in p.Leagues.
func Aggregate(records []model.Record, p Params) Result {
	allowed := p.leagueIndex()
	res := Result{
		MetricField: p.MetricField,
		Stats:       FilterStats{Total: len(records), Excluded: map[string]int{}},
	}

	values := make(map[partitionKey][]float64)
	for _, rec := range records {
		reason, v := classify(rec, p, allowed)
		if reason != "" {
			res.Stats.Excluded[reason]++
			continue
		}
		k := partitionKey{decade: Of(rec.Year), league: rec.LeagueID}
		values[k] = append(values[k], v)
		res.Stats.Kept++
	}

	res.Rows = make([]Row, 0, len(values))
	for k, xs := range values {
		res.Rows = append(res.Rows, Row{
			Decade:   k.decade,
			LeagueID: k.league,
			Mean:     stats.Mean(xs),
			Count:    len(xs),
		})
	}
	sort.Slice(res.Rows, func(i, j int) bool {
		a, b := res.Rows[i], res.Rows[j]
		if a.Decade != b.Decade {
			return a.Decade < b.Decade
		}
		return allowed[a.LeagueID] < allowed[b.LeagueID]
	})
	return res
}

// classify returns the exclusion reason for rec, or "" and the metric value
// when the record survives.
func classify(rec model.Record, p Params, allowed map[string]int) (string, float64) {
	if !rec.HasYear {
		return ReasonMissingYear, 0
	}
	if !p.Years.Contains(rec.Year) {
		return ReasonYearOutOfRange, 0
	}
	if _, ok := allowed[rec.LeagueID]; !ok || rec.LeagueID == "" {
		return ReasonLeagueNotAllowed, 0
	}
	v, ok := rec.Metric(p.MetricField)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return ReasonMissingMetric, 0
	}
	return "", v
}
