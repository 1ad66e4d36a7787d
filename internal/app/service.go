// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	repository "github.com/orestat/orestat/internal/adapters/repository"
	"github.com/orestat/orestat/internal/domain/dataset"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/internal/domain/report"
	"github.com/orestat/orestat/internal/domain/sampling"
	"github.com/orestat/orestat/internal/domain/stats"
	"github.com/orestat/orestat/internal/example"
	"github.com/orestat/orestat/pkg/logger"
	"github.com/orestat/orestat/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultSampleLimit = 5000
	defaultMaxSessions = 256
	defaultSessionTTL  = 2 * time.Hour
)

// Service implements the API dependencies for the model comparison system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	calculator *stats.Calculator
	sampler    *sampling.Sampler
	generator  *example.Generator

	// Configuration
	sampleLimit       int
	maxSessions       int
	sessionTTL        time.Duration
	compositeReserves *stats.Reserves
	blockReserves     *stats.Reserves
	samplerSource     rand.Source

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSampleLimit bounds how many points a 3D sample request returns.
func WithSampleLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.sampleLimit = limit
		}
	}
}

// WithMaxSessions bounds the number of concurrently held sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithReserves overrides the placeholder reserve figures from configuration.
func WithReserves(composite, block stats.Reserves) Option {
	return func(s *Service) {
		s.compositeReserves = &composite
		s.blockReserves = &block
	}
}

// WithSamplerSource injects the sampling randomness source, for tests.
func WithSamplerSource(src rand.Source) Option {
	return func(s *Service) {
		s.samplerSource = src
	}
}

// WithStore injects a session store, for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sampleLimit: defaultSampleLimit,
		maxSessions: defaultMaxSessions,
		sessionTTL:  defaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting comparison service...")

	if s.store == nil {
		s.store = repository.NewMemStore(ctx,
			repository.WithMaxSessions(s.maxSessions),
			repository.WithTTL(s.sessionTTL),
		)
	}

	var calcOpts []stats.Option
	if s.compositeReserves != nil {
		calcOpts = append(calcOpts, stats.WithCompositeReserves(*s.compositeReserves))
	}
	if s.blockReserves != nil {
		calcOpts = append(calcOpts, stats.WithBlockReserves(*s.blockReserves))
	}
	s.calculator = stats.NewCalculator(calcOpts...)

	var samplerOpts []sampling.Option
	if s.samplerSource != nil {
		samplerOpts = append(samplerOpts, sampling.WithSource(s.samplerSource))
	}
	s.sampler = sampling.NewSampler(samplerOpts...)

	s.generator = example.NewGenerator()

	s.started = true
	s.logger.Info(ctx, "comparison service started",
		logger.Int("sampleLimit", s.sampleLimit),
		logger.Int("maxSessions", s.maxSessions),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "comparison service stopped")
}

// CreateSession allocates a new comparison session and returns its id.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	sess, err := s.store.Create(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "session created", logger.String("session", sess.ID))
	return sess.ID, nil
}

// UploadResult describes a freshly loaded dataset: its shape plus the
// mapper's suggestions, including which roles fell back to the first column.
type UploadResult struct {
	Kind        repository.Kind
	Rows        int
	Columns     []string
	Suggestions map[mapping.Role]mapping.Suggestion
}

// LoadDataset decodes a CSV body into one of the session's dataset slots.
// The previous dataset in that slot, along with its mapping and summary,
// is superseded.
func (s *Service) LoadDataset(ctx context.Context, id string, kind repository.Kind, r io.Reader) (UploadResult, error) {
	start := time.Now()
	ds, err := dataset.Decode(r)
	if err != nil {
		metrics.RecordUploadError()
		return UploadResult{}, err
	}
	metrics.RecordParseLatency(float64(time.Since(start).Milliseconds()))

	if err := s.store.SetDataset(ctx, id, kind, ds); err != nil {
		return UploadResult{}, err
	}

	suggestions, err := mapping.Suggest(ds.Columns())
	if err != nil {
		return UploadResult{}, err
	}
	for _, sg := range suggestions {
		if !sg.Matched {
			metrics.RecordMappingFallback()
		}
	}

	metrics.RecordDatasetUploaded(string(kind))
	metrics.RecordRowsParsed(ds.Len())
	s.logger.Info(ctx, "dataset loaded",
		logger.String("session", id),
		logger.String("kind", string(kind)),
		logger.Int("rows", ds.Len()),
		logger.Int("columns", len(ds.Columns())),
	)

	return UploadResult{
		Kind:        kind,
		Rows:        ds.Len(),
		Columns:     ds.Columns(),
		Suggestions: suggestions,
	}, nil
}

// LoadExample fills the session with the generated demonstration datasets,
// applies their natural mappings, and computes both summaries in one step.
func (s *Service) LoadExample(ctx context.Context, id string) (map[repository.Kind]stats.Summary, error) {
	type generated struct {
		ds *dataset.Dataset
		m  mapping.Mapping
	}
	out := make(map[repository.Kind]stats.Summary, len(repository.Kinds))

	compDS, compMap, err := s.generator.Composite()
	if err != nil {
		return nil, err
	}
	blockDS, blockMap, err := s.generator.Block()
	if err != nil {
		return nil, err
	}

	for kind, g := range map[repository.Kind]generated{
		repository.KindComposite: {ds: compDS, m: compMap},
		repository.KindBlock:     {ds: blockDS, m: blockMap},
	} {
		if err := s.store.SetDataset(ctx, id, kind, g.ds); err != nil {
			return nil, err
		}
		sum, err := s.computeAndStore(ctx, id, kind, g.ds, g.m)
		if err != nil {
			return nil, err
		}
		out[kind] = sum
	}

	s.logger.Info(ctx, "example datasets loaded", logger.String("session", id))
	return out, nil
}

// Columns lists the column names of one loaded dataset.
func (s *Service) Columns(ctx context.Context, id string, kind repository.Kind) ([]string, error) {
	slot, err := s.slot(ctx, id, kind)
	if err != nil {
		return nil, err
	}
	return slot.Dataset.Columns(), nil
}

// ApplyMapping validates and applies both mappings, then computes both
// statistics summaries synchronously.
func (s *Service) ApplyMapping(ctx context.Context, id string, composite, block mapping.Mapping) (map[repository.Kind]stats.Summary, error) {
	out := make(map[repository.Kind]stats.Summary, len(repository.Kinds))
	for kind, m := range map[repository.Kind]mapping.Mapping{
		repository.KindComposite: composite,
		repository.KindBlock:     block,
	} {
		slot, err := s.slot(ctx, id, kind)
		if err != nil {
			return nil, err
		}
		if err := m.Validate(slot.Dataset); err != nil {
			return nil, fmt.Errorf("%s mapping: %w", kind, err)
		}
		sum, err := s.computeAndStore(ctx, id, kind, slot.Dataset, m)
		if err != nil {
			return nil, err
		}
		out[kind] = sum
	}
	return out, nil
}

// Statistics returns the stored summaries and, when both exist, the
// comparison deltas of the block model relative to the composites.
func (s *Service) Statistics(ctx context.Context, id string) (composite, block *stats.Summary, cmp *stats.Comparison, err error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	composite = sess.Composite.Summary
	block = sess.Block.Summary
	if composite != nil && block != nil {
		c := stats.Compare(*composite, *block)
		cmp = &c
	}
	return composite, block, cmp, nil
}

// Points holds the coordinate and grade vectors of a sampled dataset.
// Missing (uncoercible) cells surface as NaN entries.
type Points struct {
	X     []float64
	Y     []float64
	Z     []float64
	Grade []float64
}

// SamplePoints returns a render-bounded subset of one dataset's mapped
// point cloud. limit is clamped to the service's configured sample limit;
// a non-positive limit selects the configured default.
func (s *Service) SamplePoints(ctx context.Context, id string, kind repository.Kind, limit int) (Points, error) {
	slot, err := s.slot(ctx, id, kind)
	if err != nil {
		return Points{}, err
	}
	if slot.Mapping == nil {
		return Points{}, ErrMappingNotApplied
	}
	if limit < 1 || limit > s.sampleLimit {
		limit = s.sampleLimit
	}

	sampled, err := s.sampler.Sample(slot.Dataset, limit)
	if err != nil {
		return Points{}, err
	}
	metrics.RecordSampleRequest()

	m := *slot.Mapping
	var p Points
	if p.X, err = sampled.NumericColumn(m.X); err != nil {
		return Points{}, err
	}
	if p.Y, err = sampled.NumericColumn(m.Y); err != nil {
		return Points{}, err
	}
	if p.Z, err = sampled.NumericColumn(m.Z); err != nil {
		return Points{}, err
	}
	if p.Grade, err = sampled.NumericColumn(m.Grade); err != nil {
		return Points{}, err
	}
	return p, nil
}

// WriteReport renders the comparison CSV for the session and returns the
// timestamped filename to offer for download.
func (s *Service) WriteReport(ctx context.Context, id string, w io.Writer) (string, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if sess.Composite.Summary == nil || sess.Block.Summary == nil {
		return "", ErrNotReady
	}
	if err := report.Write(w, *sess.Composite.Summary, *sess.Block.Summary); err != nil {
		return "", err
	}
	metrics.RecordReportExport()
	s.logger.Info(ctx, "comparison report exported", logger.String("session", id))
	return report.Filename(time.Now()), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"sampleLimit": s.sampleLimit,
		"maxSessions": s.maxSessions,
	}
	if s.started {
		count := s.store.Count(context.Background())
		stats["activeSessions"] = count
		metrics.UpdateActiveSessions(count)
	}
	return stats
}

// slot fetches a session slot that must already hold a dataset.
func (s *Service) slot(ctx context.Context, id string, kind repository.Kind) (repository.Slot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return repository.Slot{}, err
	}
	slot := sess.Slot(kind)
	if slot.Dataset == nil {
		return repository.Slot{}, ErrDatasetMissing
	}
	return *slot, nil
}

// computeAndStore runs the calculator for one slot and persists both the
// mapping and the resulting summary.
func (s *Service) computeAndStore(ctx context.Context, id string, kind repository.Kind, ds *dataset.Dataset, m mapping.Mapping) (stats.Summary, error) {
	start := time.Now()
	sum, err := s.calculator.Summarize(ds, m.Grade)
	if err != nil {
		return stats.Summary{}, err
	}
	metrics.RecordComputeLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordStatsComputation()

	if err := s.store.SetMapping(ctx, id, kind, m); err != nil {
		return stats.Summary{}, err
	}
	if err := s.store.SetSummary(ctx, id, kind, sum); err != nil {
		return stats.Summary{}, err
	}
	s.logger.Debug(ctx, "summary computed",
		logger.String("session", id),
		logger.String("kind", string(kind)),
		logger.String("grade_column", m.Grade),
		logger.Float64("mean_grade", sum.MeanGrade),
	)
	return sum, nil
}
