package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrEmptyInput      = errors.New("empty tabular input")
	ErrDecode          = errors.New("malformed tabular input")
	ErrEncode          = errors.New("tabular encode failed")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrUnknownColumn   = errors.New("unknown column")
)
