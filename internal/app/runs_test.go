package app_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/decades/internal/adapters/repository"
	"github.com/okian/decades/internal/app"
	"github.com/okian/decades/internal/domain/decade"
)

func TestStoredRuns(t *testing.T) {
	Convey("Given a store holding two runs", t, func() {
		ctx := context.Background()
		store, err := repository.Open(ctx, filepath.Join(t.TempDir(), "runs.db"))
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"older", "newer"} {
			_, err := store.SaveRun(ctx, repository.Run{
				ID:          id,
				CreatedAt:   base.Add(time.Duration(i) * time.Hour),
				Input:       "teams.csv",
				MetricField: "stolen_bases",
				Years:       decade.YearRange{Min: 1900, Max: 2019},
				Leagues:     []string{"NL", "AL"},
				Total:       4,
				Kept:        4,
				Rows: []decade.Row{
					{Decade: 1910, LeagueID: "NL", Mean: 6, Count: 2},
					{Decade: 1910, LeagueID: "AL", Mean: 10, Count: 1},
					{Decade: 1920, LeagueID: "NL", Mean: 4, Count: 1},
				},
			})
			So(err, ShouldBeNil)
		}

		Convey("When listing them", func() {
			var out bytes.Buffer
			err := app.ListRuns(ctx, store, 10, &out)

			Convey("Then the newest comes first under a header", func() {
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(out.String()), "\n")
				So(lines, ShouldHaveLength, 3)
				So(lines[0], ShouldStartWith, "ID")
				So(lines[1], ShouldStartWith, "newer")
				So(lines[1], ShouldContainSubstring, "2024-05-01T13:00:00Z")
				So(lines[2], ShouldStartWith, "older")
			})
		})

		Convey("When showing one", func() {
			var out bytes.Buffer
			err := app.ShowRun(ctx, store, "older", &out)

			Convey("Then its decade table is printed", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "run older")
				So(out.String(), ShouldContainSubstring, "1910s")
				So(out.String(), ShouldContainSubstring, "6.0")
				So(out.String(), ShouldContainSubstring, "AL Teams")
			})
		})

		Convey("When showing an unknown run", func() {
			err := app.ShowRun(ctx, store, "missing", &bytes.Buffer{})

			Convey("Then it is not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
