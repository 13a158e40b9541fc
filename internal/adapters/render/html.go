package render

//go:generate templ generate -f report.templ

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/okian/decades/internal/domain/decade"
)

// ReportData is everything the HTML report shows.
type ReportData struct {
	RunID       string
	GeneratedAt time.Time
	Input       string
	Labels      Labels
	Table       decade.Table
	Stats       decade.FilterStats
	ChartSrc    string // image reference relative to the report; empty omits the chart
}

// Timestamp is the generation time in UTC, RFC 3339.
func (d ReportData) Timestamp() string {
	return d.GeneratedAt.UTC().Format(time.RFC3339)
}

func formatMean(m float64) string {
	return strconv.FormatFloat(m, 'f', 1, 64)
}

// excludedReasons lists the exclusion reasons of s in a stable order.
func excludedReasons(s decade.FilterStats) []string {
	reasons := make([]string, 0, len(s.Excluded))
	for r := range s.Excluded {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}

// WriteHTMLReport renders the report for d to path.
func WriteHTMLReport(ctx context.Context, path string, d ReportData) error {
	if len(d.Table.Decades) == 0 {
		return ErrNoData
	}
	return writeFile(path, func(f *os.File) error {
		if err := Report(d).Render(ctx, f); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
		return nil
	})
}
