// Package sampling bounds a dataset to a maximum row count for rendering.
// Sampling is uniform without replacement; the randomness source is
// injectable so tests can assert deterministically on sample size.
package sampling

import (
	"math/rand"
	"time"

	"github.com/orestat/orestat/internal/domain/dataset"
)

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithSource sets the randomness source used to draw samples.
func WithSource(src rand.Source) Option {
	return func(s *Sampler) {
		if src != nil {
			s.rng = rand.New(src) //nolint:gosec // rendering subsample, not security material
		}
	}
}

// Sampler draws bounded uniform subsets of datasets.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler with configuration options.
func NewSampler(opts ...Option) *Sampler {
	s := &Sampler{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // rendering subsample, not security material
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample returns ds unchanged when its row count is within limit, otherwise
// a new dataset of exactly limit rows drawn uniformly without replacement.
func (s *Sampler) Sample(ds *dataset.Dataset, limit int) (*dataset.Dataset, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	if ds.Len() <= limit {
		return ds, nil
	}
	perm := s.rng.Perm(ds.Len())
	return ds.Select(perm[:limit]), nil
}
