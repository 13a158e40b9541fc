package app

import "errors"

// Sentinel error kinds for pipeline failures.
var (
	// ErrEmptyResult means no (decade, league) pair had a surviving record.
	// No chart or report is written in that case.
	ErrEmptyResult = errors.New("no records left after filtering")
	ErrRender      = errors.New("render output")
	ErrPersist     = errors.New("persist summary")
)
