// Package config defines the run configuration and how it is loaded.
//
// Conventions:
// - Defaults live in New; Load layers file, env and flag overrides on top.
// - All loading functions accept context.Context as the first parameter.
// - Errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/decades/internal/domain/decade"
	"github.com/okian/decades/internal/domain/model"
)

// Chart kinds understood by the renderer.
const (
	ChartLine         = "line"
	ChartBar          = "bar"
	ChartAnnotatedBar = "annotated_bar"
	ChartNone         = "none"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Input is the path of the team-season CSV file.
	Input string `koanf:"input"`

	// Metric names a built-in preset: stolen_bases or strikeouts.
	Metric string `koanf:"metric"`

	// MetricField overrides the preset column, allowing any numeric column.
	MetricField string `koanf:"metric_field"`

	// Title and YLabel override the preset labels.
	Title  string `koanf:"title"`
	YLabel string `koanf:"y_label"`

	// YearMin and YearMax bound the seasons considered, inclusive.
	YearMin int `koanf:"year_min"`
	YearMax int `koanf:"year_max"`

	// Leagues lists the accepted league ids; order fixes column order.
	Leagues []string `koanf:"leagues"`

	// ChartKind is line, bar, annotated_bar or none. Empty uses the preset's kind.
	ChartKind string `koanf:"chart_kind"`

	// ChartPath is where the chart image is saved; the extension picks the format.
	ChartPath string `koanf:"chart_path"`

	// ChartWidthIn and ChartHeightIn size the chart in inches.
	ChartWidthIn  float64 `koanf:"chart_width_in"`
	ChartHeightIn float64 `koanf:"chart_height_in"`

	// PrintTable prints the decade table to stdout.
	PrintTable bool `koanf:"print_table"`

	// PivotCSVPath, when set, receives the pivoted summary as CSV.
	PivotCSVPath string `koanf:"pivot_csv_path"`

	// ReportPath, when set, receives an HTML report.
	ReportPath string `koanf:"report_path"`

	// StorePath, when set, is a SQLite database the summary is appended to.
	StorePath string `koanf:"store_path"`

	// MetricsPath, when set, receives run metrics in Prometheus textfile format.
	MetricsPath string `koanf:"metrics_path"`
}

// New creates a Config holding the defaults: stolen bases per decade for NL and AL, 1900-2019.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Input:         "mlb_teams.csv",
		Metric:        "stolen_bases",
		YearMin:       1900,
		YearMax:       2019,
		Leagues:       []string{"NL", "AL"},
		ChartPath:     "decades.png",
		ChartWidthIn:  12,
		ChartHeightIn: 6,
		PrintTable:    true,
	}
}

// Analysis is the resolved description of what to aggregate and how to label it.
type Analysis struct {
	Preset model.Preset
	Params decade.Params
}

// Analysis resolves the preset, overrides and filters into aggregation params.
func (c *Config) Analysis() (Analysis, error) {
	preset, ok := model.LookupPreset(c.Metric)
	switch {
	case ok:
	case c.MetricField != "":
		preset = model.Preset{
			Name:      c.MetricField,
			Title:     "Average " + c.MetricField + " per Team by Decade",
			YLabel:    "Average " + c.MetricField,
			ChartKind: ChartBar,
		}
	default:
		return Analysis{}, fmt.Errorf("%w: unknown metric %q (known: %s)",
			ErrInvalidConfig, c.Metric, strings.Join(model.PresetNames(), ", "))
	}

	if c.MetricField != "" {
		preset.Field = c.MetricField
	}
	if c.Title != "" {
		preset.Title = c.Title
	}
	if c.YLabel != "" {
		preset.YLabel = c.YLabel
	}
	if c.ChartKind != "" {
		preset.ChartKind = c.ChartKind
	}

	leagues := make([]string, 0, len(c.Leagues))
	for _, l := range c.Leagues {
		if l = strings.TrimSpace(l); l != "" {
			leagues = append(leagues, l)
		}
	}

	params := decade.Params{
		MetricField: preset.Field,
		Years:       decade.YearRange{Min: c.YearMin, Max: c.YearMax},
		Leagues:     leagues,
	}
	if err := params.Validate(); err != nil {
		return Analysis{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return Analysis{Preset: preset, Params: params}, nil
}

// Validate checks the fields Load cannot type-check.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input must not be empty", ErrInvalidConfig)
	}
	switch c.ChartKind {
	case "", ChartLine, ChartBar, ChartAnnotatedBar, ChartNone:
	default:
		return fmt.Errorf("%w: unknown chart_kind %q", ErrInvalidConfig, c.ChartKind)
	}
	if c.ChartKind != ChartNone {
		if c.ChartPath == "" {
			return fmt.Errorf("%w: chart_path must not be empty", ErrInvalidConfig)
		}
		if filepath.Ext(c.ChartPath) == "" {
			return fmt.Errorf("%w: chart_path %q needs an extension to pick the image format", ErrInvalidConfig, c.ChartPath)
		}
		if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
			return fmt.Errorf("%w: chart size must be positive", ErrInvalidConfig)
		}
	}
	_, err := c.Analysis()
	return err
}
