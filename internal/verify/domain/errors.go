package domain

import "errors"

// Fatal error classes. Infrastructure failures wrap one of these with %w and
// abort the run; callers test for them with errors.Is.
var (
	// ErrFatalIO marks a required input file that is missing or unreadable.
	ErrFatalIO = errors.New("fatal i/o error")
	// ErrFatalNetwork marks a failed fetch of the public suffix dataset.
	ErrFatalNetwork = errors.New("fatal network error")
	// ErrDatasetParse marks a public suffix dataset that is empty or unparsable.
	ErrDatasetParse = errors.New("public suffix dataset parse error")
)
