package field

import "errors"

// Domain errors for field construction.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("field: invalid config")

	// ErrInvalidColor indicates a palette entry that is not a #rrggbb hex color.
	ErrInvalidColor = errors.New("field: invalid palette color")
)
