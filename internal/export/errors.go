package export

import "errors"

var (
	ErrNoFrames      = errors.New("export: no frames captured")
	ErrInvalidScript = errors.New("export: invalid input script")
)
