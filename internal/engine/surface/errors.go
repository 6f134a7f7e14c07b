package surface

import "errors"

// Errors returned by surface operations.
var (
	// ErrNotBound indicates a draw call on a Canvas with no bound bitmap.
	ErrNotBound = errors.New("canvas has no bound surface")

	// ErrInvalidColor indicates a color string that could not be parsed.
	ErrInvalidColor = errors.New("invalid color")

	// ErrSizeMismatch indicates two bitmaps of different dimensions were combined.
	ErrSizeMismatch = errors.New("surface size mismatch")
)
