package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/okian/decades/internal/adapters/render"
	"github.com/okian/decades/internal/adapters/repository"
	"github.com/okian/decades/internal/domain/decade"
)

// ListRuns prints up to limit stored runs, newest first.
func ListRuns(ctx context.Context, s repository.Store, limit int, w io.Writer) error {
	runs, err := s.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tCreated\tMetric\tRows"); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	for _, r := range runs {
		line := r.ID + "\t" + r.CreatedAt.UTC().Format(time.RFC3339) + "\t" + r.MetricField + "\t" + strconv.Itoa(r.Rows)
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// ShowRun prints the decade table of the stored run id.
func ShowRun(ctx context.Context, s repository.Store, id string, w io.Writer) error {
	run, err := s.Run(ctx, id)
	if err != nil {
		return fmt.Errorf("show run: %w", err)
	}

	res := decade.Result{
		MetricField: run.MetricField,
		Rows:        run.Rows,
		Stats:       decade.FilterStats{Total: run.Total, Kept: run.Kept},
	}
	table := decade.Pivot(res, run.Leagues)
	labels := render.Labels{
		Title: fmt.Sprintf("%s, %d-%d, run %s", run.MetricField, run.Years.Min, run.Years.Max, run.ID),
	}
	if err := render.WriteTable(w, table, labels); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}
