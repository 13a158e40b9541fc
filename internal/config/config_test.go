package config_test

import (
	"errors"
	"testing"

	"github.com/okian/decades/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it describes the stolen base analysis over 1900-2019", func() {
			convey.So(cfg.Input, convey.ShouldEqual, "mlb_teams.csv")
			convey.So(cfg.Metric, convey.ShouldEqual, "stolen_bases")
			convey.So(cfg.YearMin, convey.ShouldEqual, 1900)
			convey.So(cfg.YearMax, convey.ShouldEqual, 2019)
			convey.So(cfg.Leagues, convey.ShouldResemble, []string{"NL", "AL"})
			convey.So(cfg.ChartPath, convey.ShouldEqual, "decades.png")
			convey.So(cfg.PrintTable, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Analysis(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.Convey("When resolving the analysis", func() {
			a, err := cfg.Analysis()

			convey.Convey("Then the stolen base preset drives a line chart", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.Params.MetricField, convey.ShouldEqual, "stolen_bases")
				convey.So(a.Params.Years.Min, convey.ShouldEqual, 1900)
				convey.So(a.Params.Years.Max, convey.ShouldEqual, 2019)
				convey.So(a.Preset.ChartKind, convey.ShouldEqual, config.ChartLine)
			})
		})

		convey.Convey("When selecting the strikeout preset with an annotated chart", func() {
			cfg.Metric = "strikeouts"
			cfg.ChartKind = config.ChartAnnotatedBar
			a, err := cfg.Analysis()

			convey.Convey("Then the pitcher column and the override are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.Params.MetricField, convey.ShouldEqual, "strikeouts_by_pitchers")
				convey.So(a.Preset.ChartKind, convey.ShouldEqual, config.ChartAnnotatedBar)
			})
		})

		convey.Convey("When naming an arbitrary column instead of a preset", func() {
			cfg.Metric = "custom"
			cfg.MetricField = "home_runs"
			cfg.Title = "Home runs"
			a, err := cfg.Analysis()

			convey.Convey("Then the column is aggregated with the given labels", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.Params.MetricField, convey.ShouldEqual, "home_runs")
				convey.So(a.Preset.Title, convey.ShouldEqual, "Home runs")
				convey.So(a.Preset.YLabel, convey.ShouldEqual, "Average home_runs")
			})
		})

		convey.Convey("When blank league entries are configured", func() {
			cfg.Leagues = []string{" NL ", "", "AL"}
			a, err := cfg.Analysis()

			convey.Convey("Then they are trimmed and dropped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.Params.Leagues, convey.ShouldResemble, []string{"NL", "AL"})
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"unknown metric", func(c *config.Config) { c.Metric = "home_runs" }},
			{"inverted year range", func(c *config.Config) { c.YearMin, c.YearMax = 2019, 1900 }},
			{"no leagues", func(c *config.Config) { c.Leagues = []string{" "} }},
			{"unknown chart kind", func(c *config.Config) { c.ChartKind = "pie" }},
			{"chart without extension", func(c *config.Config) { c.ChartPath = "chart" }},
			{"zero chart width", func(c *config.Config) { c.ChartWidthIn = 0 }},
			{"empty input", func(c *config.Config) { c.Input = "" }},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)

			convey.Convey("Then "+tc.name+" is rejected", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then chart settings are ignored when charts are disabled", func() {
			cfg := config.New()
			cfg.ChartKind = config.ChartNone
			cfg.ChartPath = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
