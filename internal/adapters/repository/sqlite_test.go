package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/decades/internal/adapters/repository"
	"github.com/okian/decades/internal/domain/decade"
	. "github.com/smartystreets/goconvey/convey"
)

func openStore(t *testing.T, opts ...repository.Option) *repository.SQLiteStore {
	t.Helper()
	s, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "decades.db"), opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func sampleRun() repository.Run {
	return repository.Run{
		Input:       "mlb_teams.csv",
		MetricField: "stolen_bases",
		Years:       decade.YearRange{Min: 1900, Max: 2019},
		Leagues:     []string{"NL", "AL"},
		Total:       5,
		Kept:        4,
		Rows: []decade.Row{
			{Decade: 1910, LeagueID: "NL", Mean: 6, Count: 2},
			{Decade: 1910, LeagueID: "AL", Mean: 10, Count: 1},
			{Decade: 1920, LeagueID: "NL", Mean: 4, Count: 1},
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		store := openStore(t, repository.WithClock(func() time.Time { return now }), repository.WithBusyTimeout(time.Second))
		defer func() { _ = store.Close() }()

		Convey("When saving a run without an id", func() {
			id, err := store.SaveRun(ctx, sampleRun())

			Convey("Then a UUID is assigned", func() {
				So(err, ShouldBeNil)
				So(id, ShouldHaveLength, 36)
			})

			Convey("And the run reads back unchanged", func() {
				got, err := store.Run(ctx, id)
				So(err, ShouldBeNil)
				want := sampleRun()
				want.ID = id
				want.CreatedAt = now
				So(got, ShouldResemble, want)
			})

			Convey("And it is listed with its row count", func() {
				runs, err := store.ListRuns(ctx, 10)
				So(err, ShouldBeNil)
				So(runs, ShouldResemble, []repository.RunInfo{{ID: id, CreatedAt: now, MetricField: "stolen_bases", Rows: 3}})
			})
		})

		Convey("When saving two runs", func() {
			older := sampleRun()
			older.ID = "older"
			older.CreatedAt = now.Add(-time.Hour)
			newer := sampleRun()
			newer.ID = "newer"
			newer.MetricField = "strikeouts_by_pitchers"
			newer.Rows = nil
			_, err1 := store.SaveRun(ctx, older)
			_, err2 := store.SaveRun(ctx, newer)

			Convey("Then the listing is newest first and honours the limit", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				runs, err := store.ListRuns(ctx, 1)
				So(err, ShouldBeNil)
				So(runs, ShouldHaveLength, 1)
				So(runs[0].ID, ShouldEqual, "newer")
				So(runs[0].Rows, ShouldEqual, 0)
			})
		})

		Convey("When saving the same id twice", func() {
			run := sampleRun()
			run.ID = "dup"
			_, err := store.SaveRun(ctx, run)
			So(err, ShouldBeNil)
			_, err = store.SaveRun(ctx, run)

			Convey("Then the second save fails and leaves the first intact", func() {
				So(err, ShouldNotBeNil)
				got, getErr := store.Run(ctx, "dup")
				So(getErr, ShouldBeNil)
				So(got.Rows, ShouldHaveLength, 3)
			})
		})

		Convey("When reading an unknown run", func() {
			_, err := store.Run(ctx, "missing")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When listing with a non-positive limit", func() {
			_, err := store.ListRuns(ctx, 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)

			Convey("Then further calls fail", func() {
				_, err := store.SaveRun(ctx, sampleRun())
				So(errors.Is(err, repository.ErrStoreClosed), ShouldBeTrue)
				_, err = store.Run(ctx, "x")
				So(errors.Is(err, repository.ErrStoreClosed), ShouldBeTrue)
				So(store.Close(), ShouldBeNil)
			})
		})
	})
}
