package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNotFound    = errors.New("session not found")
	ErrUnknownKind = errors.New("unknown dataset kind")
	ErrNilDataset  = errors.New("nil dataset")
)
