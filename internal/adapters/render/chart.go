package render

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/okian/decades/internal/domain/decade"
)

// Chart kinds.
const (
	KindLine         = "line"
	KindBar          = "bar"
	KindAnnotatedBar = "annotated_bar"
)

const (
	barGroupWidth = vg.Length(36) // points shared by the bars of one decade
	decadePadding = 5             // years of x-axis slack around line charts
	decadeWidth   = 10
)

// ChartSpec describes the chart to draw.
type ChartSpec struct {
	Kind     string
	Labels   Labels
	WidthIn  float64
	HeightIn float64
}

// WriteChart draws t and saves it to path. The image format follows the
// file extension (png, svg, pdf, ...).
//
// Line charts draw one line per league through the decades it has data for.
// Bar charts draw grouped bars; a league without data in a decade gets an
// empty slot, and annotated bars label only the bars that carry data.
func WriteChart(t decade.Table, cs ChartSpec, path string) error {
	if len(t.Decades) == 0 {
		return ErrNoData
	}

	p, err := newPlot(t, cs)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := p.Save(vg.Length(cs.WidthIn)*vg.Inch, vg.Length(cs.HeightIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrRender, path, err)
	}
	return nil
}

func newPlot(t decade.Table, cs ChartSpec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = cs.Labels.Title
	p.X.Label.Text = cs.Labels.xLabel()
	p.Y.Label.Text = cs.Labels.YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	var err error
	switch cs.Kind {
	case KindLine:
		err = addLines(p, t)
	case KindBar:
		err = addBars(p, t, false)
	case KindAnnotatedBar:
		err = addBars(p, t, true)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownChartKind, cs.Kind)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func addLines(p *plot.Plot, t decade.Table) error {
	for j, league := range t.Leagues {
		runs := lineRuns(t, j)
		if len(runs) == 0 {
			continue
		}

		var all plotter.XYs
		for _, run := range runs {
			all = append(all, run...)
		}
		points, err := plotter.NewScatter(all)
		if err != nil {
			return fmt.Errorf("%w: %s points: %w", ErrRender, league, err)
		}
		points.Color = plotutil.Color(j)
		points.Shape = draw.CircleGlyph{}

		var first *plotter.Line
		for _, run := range runs {
			line, err := plotter.NewLine(run)
			if err != nil {
				return fmt.Errorf("%w: %s line: %w", ErrRender, league, err)
			}
			line.Color = plotutil.Color(j)
			p.Add(line)
			if first == nil {
				first = line
			}
		}
		p.Add(points)
		p.Legend.Add(league, first, points)
	}

	ticks := make([]plot.Tick, len(t.Decades))
	for i, d := range t.Decades {
		ticks[i] = plot.Tick{Value: float64(d), Label: strconv.Itoa(d)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min = float64(t.Decades[0] - decadePadding)
	p.X.Max = float64(t.Decades[len(t.Decades)-1] + decadePadding)
	p.Y.Min = 0
	return nil
}

// lineRuns splits the present cells of league column j into runs of
// consecutive decades. A decade without data for the league, or missing
// from the table altogether, ends a run so the line shows a gap there.
func lineRuns(t decade.Table, j int) []plotter.XYs {
	var (
		runs []plotter.XYs
		cur  plotter.XYs
		prev int
	)
	for i, d := range t.Decades {
		c := t.Cells[i][j]
		if !c.OK || (len(cur) > 0 && d-prev > decadeWidth) {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
		}
		if c.OK {
			cur = append(cur, plotter.XY{X: float64(d), Y: c.Mean})
			prev = d
		}
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func addBars(p *plot.Plot, t decade.Table, annotate bool) error {
	n := len(t.Leagues)
	if n == 0 {
		return ErrNoData
	}
	width := barGroupWidth / vg.Length(n)

	for j, league := range t.Leagues {
		offset := (vg.Length(j) - vg.Length(n-1)/2) * width

		// Absent pairs occupy their slot with zero height so groups stay aligned.
		values := make(plotter.Values, len(t.Decades))
		var (
			at   plotter.XYs
			text []string
		)
		for i := range t.Decades {
			c := t.Cells[i][j]
			if !c.OK {
				continue
			}
			values[i] = c.Mean
			at = append(at, plotter.XY{X: float64(i), Y: c.Mean})
			text = append(text, strconv.FormatFloat(c.Mean, 'f', 1, 64))
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("%w: %s bars: %w", ErrRender, league, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(j)
		bars.Offset = offset
		p.Add(bars)
		p.Legend.Add(league, bars)

		if annotate && len(at) > 0 {
			labels, err := plotter.NewLabels(plotter.XYLabels{XYs: at, Labels: text})
			if err != nil {
				return fmt.Errorf("%w: %s labels: %w", ErrRender, league, err)
			}
			labels.Offset = vg.Point{X: offset - width/2, Y: vg.Points(3)}
			p.Add(labels)
		}
	}

	p.NominalX(t.Labels()...)
	p.Y.Min = 0
	return nil
}
