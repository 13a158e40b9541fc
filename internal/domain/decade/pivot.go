package decade

import "strconv"

// Cell is one decade x league entry of a Table. OK is false when no record
// survived for that pair; Mean and Count are zero then and must not be
// presented as data.
type Cell struct {
	Mean  float64
	Count int
	OK    bool
}

// Table is the summary reshaped with one row per decade and one column per
// league, the layout charts and printed tables expect.
type Table struct {
	MetricField string
	Decades     []int
	Leagues     []string
	Cells       [][]Cell // Cells[decade index][league index]
}

// Pivot reshapes res into a Table. Columns follow leagues; rows are the
// decades present in res, ascending. Leagues without any row still get a
// column so that chart colours stay stable across metrics.
func Pivot(res Result, leagues []string) Table {
	t := Table{MetricField: res.MetricField, Leagues: append([]string(nil), leagues...)}

	col := make(map[string]int, len(leagues))
	for i, l := range leagues {
		if _, seen := col[l]; !seen {
			col[l] = i
		}
	}
	row := make(map[int]int)
	for _, r := range res.Rows {
		if _, ok := row[r.Decade]; !ok {
			row[r.Decade] = len(t.Decades)
			t.Decades = append(t.Decades, r.Decade)
			t.Cells = append(t.Cells, make([]Cell, len(leagues)))
		}
	}
	for _, r := range res.Rows {
		j, ok := col[r.LeagueID]
		if !ok {
			continue
		}
		t.Cells[row[r.Decade]][j] = Cell{Mean: r.Mean, Count: r.Count, OK: true}
	}
	return t
}

// Column returns the cells of the named league in decade order.
func (t Table) Column(league string) []Cell {
	for j, l := range t.Leagues {
		if l != league {
			continue
		}
		out := make([]Cell, len(t.Decades))
		for i := range t.Decades {
			out[i] = t.Cells[i][j]
		}
		return out
	}
	return nil
}

// Label formats a decade the way tables and charts print it, e.g. "1910s".
func Label(decade int) string {
	return strconv.Itoa(decade) + "s"
}

// Labels returns Label for every decade of t.
func (t Table) Labels() []string {
	out := make([]string, len(t.Decades))
	for i, d := range t.Decades {
		out[i] = Label(d)
	}
	return out
}
