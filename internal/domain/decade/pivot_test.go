package decade_test

import (
	"testing"

	"github.com/okian/decades/internal/domain/decade"
	"github.com/okian/decades/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPivot(t *testing.T) {
	Convey("Given an aggregated fixture", t, func() {
		res := decade.Aggregate([]model.Record{
			rec(1915, "NL", 5),
			rec(1915, "NL", 7),
			rec(1915, "AL", 10),
			rec(1923, "NL", 4),
		}, defaultParams())

		table := decade.Pivot(res, []string{"NL", "AL"})

		Convey("Then decades are the rows in ascending order", func() {
			So(table.Decades, ShouldResemble, []int{1910, 1920})
			So(table.Labels(), ShouldResemble, []string{"1910s", "1920s"})
		})

		Convey("And leagues are the columns in the given order", func() {
			So(table.Leagues, ShouldResemble, []string{"NL", "AL"})
			So(table.Column("NL"), ShouldResemble, []decade.Cell{
				{Mean: 6, Count: 2, OK: true},
				{Mean: 4, Count: 1, OK: true},
			})
		})

		Convey("And a missing pair is marked absent rather than zero-filled data", func() {
			al := table.Column("AL")
			So(al[0].OK, ShouldBeTrue)
			So(al[1].OK, ShouldBeFalse)
		})

		Convey("And an unknown league has no column", func() {
			So(table.Column("FL"), ShouldBeNil)
		})
	})

	Convey("Given an empty result", t, func() {
		table := decade.Pivot(decade.Result{}, []string{"NL"})

		Convey("Then the table has no rows", func() {
			So(table.Decades, ShouldBeEmpty)
			So(table.Cells, ShouldBeEmpty)
		})
	})
}
