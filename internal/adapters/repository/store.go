// Package repository defines the session store interface and errors.
//
// A session owns the two uploaded datasets, their column mappings, and the
// statistics computed from them. Sessions are fully isolated from each
// other; nothing here is shared across session boundaries.
package repository

import (
	"context"
	"time"

	"github.com/orestat/orestat/internal/domain/dataset"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/internal/domain/stats"
)

// Kind names one of the two dataset slots held by a session.
type Kind string

// Dataset kinds.
const (
	KindComposite Kind = "composite"
	KindBlock     Kind = "block"
)

// Kinds lists both dataset kinds.
var Kinds = []Kind{KindComposite, KindBlock}

// ParseKind validates a kind taken from an URL path or query string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindComposite:
		return KindComposite, nil
	case KindBlock:
		return KindBlock, nil
	}
	return "", ErrUnknownKind
}

// Slot is one dataset position of a session. Mapping and Summary are nil
// until they have been produced for the currently held dataset; replacing
// the dataset clears both.
type Slot struct {
	Dataset *dataset.Dataset
	Mapping *mapping.Mapping
	Summary *stats.Summary
}

// Session is a point-in-time snapshot of one comparison session.
type Session struct {
	ID         string
	CreatedAt  time.Time
	LastAccess time.Time
	Composite  Slot
	Block      Slot
}

// Slot returns the session's slot for kind.
func (s *Session) Slot(kind Kind) *Slot {
	if kind == KindComposite {
		return &s.Composite
	}
	return &s.Block
}

// Store provides read/write access to session state.
type Store interface {
	// Create allocates a new empty session and returns its snapshot.
	Create(ctx context.Context) (Session, error)

	// Get returns a snapshot of the session.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (Session, error)

	// SetDataset replaces one slot's dataset and clears its mapping and
	// summary; earlier derived records are superseded, never mutated.
	SetDataset(ctx context.Context, id string, kind Kind, ds *dataset.Dataset) error

	// SetMapping records the applied column mapping for one slot.
	SetMapping(ctx context.Context, id string, kind Kind, m mapping.Mapping) error

	// SetSummary records the computed statistics for one slot.
	SetSummary(ctx context.Context, id string, kind Kind, sum stats.Summary) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
