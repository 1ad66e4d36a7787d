package sampling

import "errors"

// Sentinel kinds for sampling errors.
var (
	ErrNilDataset   = errors.New("no dataset to sample")
	ErrInvalidLimit = errors.New("sample limit must be positive")
)
