package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okian/decades/internal/domain/decade"
)

// WriteTable prints t as an aligned, decade-sorted table: one average column
// and one team-count column per league. Averages are rounded to one decimal;
// a league without teams in a decade shows "-" and a count of 0.
func WriteTable(w io.Writer, t decade.Table, labels Labels) error {
	if len(t.Decades) == 0 {
		return ErrNoData
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if labels.Title != "" {
		if _, err := fmt.Fprintf(tw, "%s\n", labels.Title); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
	}

	header := []string{labels.xLabel()}
	for _, l := range t.Leagues {
		header = append(header, l+" Avg")
	}
	for _, l := range t.Leagues {
		header = append(header, l+" Teams")
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	for i, label := range t.Labels() {
		row := make([]string, 0, 1+2*len(t.Leagues))
		row = append(row, label)
		for _, c := range t.Cells[i] {
			if c.OK {
				row = append(row, strconv.FormatFloat(c.Mean, 'f', 1, 64))
			} else {
				row = append(row, "-")
			}
		}
		for _, c := range t.Cells[i] {
			row = append(row, strconv.Itoa(c.Count))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}
