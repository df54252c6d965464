package matrix

import "errors"

var (
	// ErrUnsupportedFormat is returned when the requested output format has no encoder.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrMatrixTooLarge is returned when a matrix exceeds the configured element limit.
	ErrMatrixTooLarge = errors.New("matrix exceeds configured maximum size")
	// ErrInvalidShape is returned when the grid is empty or its rows are unevenly sized.
	ErrInvalidShape = errors.New("matrix must be non-empty and rectangular")
)
