package csvsource

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUnreadable marks a hard failure at the loading boundary: the file is
	// missing, unreadable or not parseable as delimited text.
	ErrUnreadable = errors.New("input unreadable")
)
