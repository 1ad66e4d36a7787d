package mapping

import "errors"

// Sentinel kinds for mapping errors.
var (
	ErrNoColumns     = errors.New("dataset has no columns")
	ErrUnknownRole   = errors.New("unknown mapping role")
	ErrIncomplete    = errors.New("mapping does not cover every role")
	ErrColumnMissing = errors.New("mapped column not present in dataset")
)
