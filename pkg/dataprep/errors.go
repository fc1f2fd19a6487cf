package dataprep

import "errors"

var (
	// ErrColumnOutOfRange is returned when a selector position falls outside the frame.
	ErrColumnOutOfRange = errors.New("column index out of range")
	// ErrNotString is returned when a cell that must be trimmed holds a non-string value.
	ErrNotString = errors.New("cell is not a string")
	// ErrNotFitted is returned by Transform on an encoder that was never fitted.
	ErrNotFitted = errors.New("encoder is not fitted")
	// ErrColumnMismatch is returned when Transform sees a different column count than Fit.
	ErrColumnMismatch = errors.New("column count differs from fit")
)
