package render

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoData           = errors.New("nothing to render")
	ErrUnknownChartKind = errors.New("unknown chart kind")
	ErrRender           = errors.New("render failed")
)
