package model

import "sort"

// Preset bundles a metric column with the labels used when presenting it.
type Preset struct {
	Name      string // short name used in configuration, e.g. "stolen_bases"
	Field     string // source column
	Title     string // chart and report title
	YLabel    string // value axis label
	ChartKind string // default chart kind for this metric
}

// Built-in metric presets.
var presets = map[string]Preset{ //nolint:gochecknoglobals // read-only preset table
	"stolen_bases": {
		Name:      "stolen_bases",
		Field:     "stolen_bases",
		Title:     "Average Stolen Bases per Team per Year by Decade",
		YLabel:    "Average Stolen Bases",
		ChartKind: "line",
	},
	"strikeouts": {
		Name:      "strikeouts",
		Field:     "strikeouts_by_pitchers",
		Title:     "Average Strikeouts by Pitchers per Team by Decade",
		YLabel:    "Average Strikeouts by Pitchers",
		ChartKind: "bar",
	},
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames lists the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
