package render

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/decades/internal/domain/decade"
)

// PivotFrame converts t into a dataframe with a decade column followed by
// <league>_mean and <league>_count columns. Absent pairs are empty cells.
func PivotFrame(t decade.Table) dataframe.DataFrame {
	decades := make([]string, len(t.Decades))
	for i, d := range t.Decades {
		decades[i] = strconv.Itoa(d)
	}
	cols := []series.Series{series.New(decades, series.String, "decade")}

	for j, league := range t.Leagues {
		means := make([]string, len(t.Decades))
		counts := make([]string, len(t.Decades))
		for i := range t.Decades {
			if c := t.Cells[i][j]; c.OK {
				means[i] = strconv.FormatFloat(c.Mean, 'f', -1, 64)
				counts[i] = strconv.Itoa(c.Count)
			}
		}
		cols = append(cols,
			series.New(means, series.String, league+"_mean"),
			series.New(counts, series.String, league+"_count"),
		)
	}
	return dataframe.New(cols...)
}

// WritePivotCSV writes the pivot of t as CSV, ready for a spreadsheet.
func WritePivotCSV(w io.Writer, t decade.Table) error {
	if len(t.Decades) == 0 {
		return ErrNoData
	}
	df := PivotFrame(t)
	if df.Err != nil {
		return fmt.Errorf("%w: %w", ErrRender, df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// SavePivotCSV writes the pivot of t to path.
func SavePivotCSV(path string, t decade.Table) error {
	return writeFile(path, func(f *os.File) error { return WritePivotCSV(f, t) })
}
