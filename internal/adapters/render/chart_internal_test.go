package render

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/plot/plotter"

	"github.com/okian/decades/internal/domain/decade"
)

func TestLineRuns(t *testing.T) {
	Convey("Given a league column with holes", t, func() {
		present := func(mean float64) decade.Cell { return decade.Cell{Mean: mean, Count: 1, OK: true} }
		table := decade.Table{
			Decades: []int{1900, 1910, 1920, 1930, 1960, 1970},
			Leagues: []string{"NL", "FL"},
			Cells: [][]decade.Cell{
				{present(1), {}},
				{present(2), present(9)},
				{{}, {}},
				{present(4), {}},
				{present(5), {}},
				{present(6), {}},
			},
		}

		Convey("Then an absent decade splits the line", func() {
			runs := lineRuns(table, 0)
			So(runs, ShouldHaveLength, 3)
			So(runs[0], ShouldResemble, plotter.XYs{{X: 1900, Y: 1}, {X: 1910, Y: 2}})
			So(runs[1], ShouldResemble, plotter.XYs{{X: 1930, Y: 4}})
		})

		Convey("And decades missing from the table split it too", func() {
			runs := lineRuns(table, 0)
			So(runs[2], ShouldResemble, plotter.XYs{{X: 1960, Y: 5}, {X: 1970, Y: 6}})
		})

		Convey("And a single present decade is one run of one point", func() {
			So(lineRuns(table, 1), ShouldResemble, []plotter.XYs{{{X: 1910, Y: 9}}})
		})
	})
}
