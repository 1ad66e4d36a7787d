package stats

import "errors"

// Sentinel kinds for statistics errors.
var (
	ErrNilDataset    = errors.New("no dataset loaded")
	ErrInvalidColumn = errors.New("invalid grade column")
)
