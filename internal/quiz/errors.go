package quiz

import "errors"

var (
	// ErrMissingData is returned when the selected grade or list has no words
	ErrMissingData = errors.New("no words for the selected grade and list")
	// ErrPoolTooSmall reports that a question was built with duplicate or
	// placeholder options because the answer pool lacked distinct values.
	// The question is still usable.
	ErrPoolTooSmall = errors.New("answer pool has too few distinct values")
	// ErrNotRunning is returned for answers submitted when no quiz is running
	ErrNotRunning = errors.New("no quiz is running")
	// ErrWrongMode is returned when an answer does not match the running quiz type
	ErrWrongMode = errors.New("answer does not match the running quiz type")
)
