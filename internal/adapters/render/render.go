// Package render presents a pivoted decade summary: as a console table, a
// chart image, a CSV sheet or an HTML report. Renderers only lay out the
// numbers they are given; none of them recomputes or fills in data.
package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// Labels carries the human-readable text shared by all renderers.
type Labels struct {
	Title  string
	XLabel string
	YLabel string
}

func (l Labels) xLabel() string {
	if l.XLabel == "" {
		return "Decade"
	}
	return l.XLabel
}

// ensureDir creates the missing parent directories of path.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // output directories are meant to be readable
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// createFile creates path and any missing parent directories.
func createFile(path string) (*os.File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return f, nil
}

// writeFile runs write against a freshly created file at path and reports
// the first error of writing or closing.
func writeFile(path string, write func(f *os.File) error) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrRender, cerr)
		}
	}()
	return write(f)
}
