package service

import "errors"

// Service layer errors.
var (
	// ErrDatasetMissing indicates the requested dataset slot has not been
	// loaded yet.
	ErrDatasetMissing = errors.New("dataset not loaded")

	// ErrMappingNotApplied indicates an operation needs column roles that
	// have not been assigned yet.
	ErrMappingNotApplied = errors.New("column mapping not applied")

	// ErrNotReady indicates an operation needs both summaries computed.
	ErrNotReady = errors.New("statistics not computed for both datasets")
)
