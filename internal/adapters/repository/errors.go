package repository

import "errors"

// Sentinel kinds for summary store errors.
var (
	ErrNotFound     = errors.New("run not found")
	ErrStoreClosed  = errors.New("summary store closed")
	ErrInvalidLimit = errors.New("invalid run list limit")
)
