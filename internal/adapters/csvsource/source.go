// Package csvsource loads team-season records from a delimited text file.
//
// Rows are split with encoding/csv and loaded into a gota dataframe with
// every column typed as string; this package only converts cells into
// model.Record values. A short row is padded rather than rejected. Cells
// that are blank, an NA marker, or not a finite number are left out of the
// record instead of being coerced to zero.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/decades/internal/domain/model"
)

// Dataset is the parsed content of one input file.
type Dataset struct {
	Path           string
	Columns        []string // normalised header names, in file order
	MissingColumns []string // requested columns absent from the header
	Records        []model.Record
}

// Options controls how a file is read.
type Options struct {
	// MetricFields are the numeric columns copied into Record.Metrics.
	MetricFields []string
	// Delimiter separates fields; zero means comma.
	Delimiter rune
}

// Load reads path and converts each row into a model.Record. Any error
// returned wraps ErrUnreadable. A header that lacks year, league_id or a
// requested metric column is not an error; the names are listed in
// Dataset.MissingColumns and the affected values are simply absent.
func Load(ctx context.Context, path string, opts Options) (Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Read(ctx, f, opts)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// Read parses delimited text from r. See Load.
func Read(ctx context.Context, r io.Reader, opts Options) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	rows, err := readRows(r, opts.Delimiter)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		// Keep raw text; "NA" is a real league id in early seasons.
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrUnreadable, df.Err)
	}

	// Map normalised names to the raw header so lookups tolerate "League ID".
	raw := make(map[string]string, df.Ncol())
	ds := Dataset{}
	for _, name := range df.Names() {
		key := normalise(name)
		if _, dup := raw[key]; dup {
			continue
		}
		raw[key] = name
		ds.Columns = append(ds.Columns, key)
	}

	column := func(key string) []string {
		name, ok := raw[key]
		if !ok {
			return nil
		}
		return df.Col(name).Records()
	}

	wanted := append([]string{model.ColumnYear, model.ColumnLeagueID}, opts.MetricFields...)
	for _, key := range wanted {
		if _, ok := raw[key]; !ok {
			ds.MissingColumns = append(ds.MissingColumns, key)
		}
	}

	years := column(model.ColumnYear)
	leagues := column(model.ColumnLeagueID)
	teams := column(model.ColumnTeamName)
	metrics := make(map[string][]string, len(opts.MetricFields))
	for _, field := range opts.MetricFields {
		if vals := column(field); vals != nil {
			metrics[field] = vals
		}
	}

	n := df.Nrow()
	ds.Records = make([]model.Record, n)
	for i := 0; i < n; i++ {
		rec := model.Record{Metrics: make(map[string]float64, len(metrics))}
		if years != nil {
			rec.Year, rec.HasYear = parseYear(years[i])
		}
		if leagues != nil {
			rec.LeagueID = text(leagues[i])
		}
		if teams != nil {
			rec.TeamName = text(teams[i])
		}
		for field, vals := range metrics {
			if v, ok := parseNumber(vals[i]); ok {
				rec.Metrics[field] = v
			}
		}
		ds.Records[i] = rec
	}
	return ds, nil
}

// readRows reads every row of r. Rows shorter than the header are padded
// with blank cells so their missing values are dropped record by record;
// rows longer than the header are an error.
func readRows(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	if delimiter != 0 {
		cr.Comma = delimiter
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	width := len(rows[0])
	for i, row := range rows[1:] {
		switch {
		case len(row) > width:
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(row), width)
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			rows[i+1] = padded
		}
	}
	return rows, nil
}

// normalise converts "League ID" and "league-id" to "league_id".
func normalise(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// text trims a string cell.
func text(s string) string {
	return strings.TrimSpace(s)
}

// parseNumber accepts finite numbers only. Blank cells, NA markers and
// anything strconv rejects are missing.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseYear accepts integral values, including "1915.0" as written by
// tools that store the column as float.
func parseYear(s string) (int, bool) {
	v, ok := parseNumber(s)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}
