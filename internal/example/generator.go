// Package example generates deterministic demonstration datasets for
// trying the comparison workflow without real data.
package example

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/orestat/orestat/internal/domain/dataset"
	"github.com/orestat/orestat/internal/domain/mapping"
)

// Generation constants. Seed 42 reproduces the original example datasets'
// shape: composites carry a slightly higher, wider grade distribution than
// the smoothed block model.
const (
	DefaultSeed = 42

	compositeRows = 1000
	blockRows     = 5000

	coordMax = 1000.0
	elevMin  = -200.0

	compositeLogMean  = 0.8
	compositeLogSigma = 0.6
	blockLogMean      = 0.75
	blockLogSigma     = 0.5

	floatDecimals = 6
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed sets the generation seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithRows overrides the generated row counts.
func WithRows(composite, block int) Option {
	return func(g *Generator) {
		if composite > 0 {
			g.compositeRows = composite
		}
		if block > 0 {
			g.blockRows = block
		}
	}
}

// Generator produces the two example datasets.
type Generator struct {
	seed          int64
	compositeRows int
	blockRows     int
}

// NewGenerator creates a Generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		seed:          DefaultSeed,
		compositeRows: compositeRows,
		blockRows:     blockRows,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Composite generates the example composite dataset (EAST/NORTH/ELEV/AU_GPT)
// together with its natural column mapping.
func (g *Generator) Composite() (*dataset.Dataset, mapping.Mapping, error) {
	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // demonstration data, determinism wanted
	ds, err := generate(rng, []string{"EAST", "NORTH", "ELEV", "AU_GPT"}, g.compositeRows, compositeLogMean, compositeLogSigma)
	if err != nil {
		return nil, mapping.Mapping{}, err
	}
	return ds, mapping.Mapping{X: "EAST", Y: "NORTH", Z: "ELEV", Grade: "AU_GPT"}, nil
}

// Block generates the example block model dataset (X/Y/Z/GRADE) together
// with its natural column mapping.
func (g *Generator) Block() (*dataset.Dataset, mapping.Mapping, error) {
	rng := rand.New(rand.NewSource(g.seed + 1)) //nolint:gosec // demonstration data, determinism wanted
	ds, err := generate(rng, []string{"X", "Y", "Z", "GRADE"}, g.blockRows, blockLogMean, blockLogSigma)
	if err != nil {
		return nil, mapping.Mapping{}, err
	}
	return ds, mapping.Mapping{X: "X", Y: "Y", Z: "Z", Grade: "GRADE"}, nil
}

// generate fills rows of uniform coordinates and lognormal grades.
func generate(rng *rand.Rand, columns []string, n int, logMean, logSigma float64) (*dataset.Dataset, error) {
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = []string{
			formatFloat(rng.Float64() * coordMax),
			formatFloat(rng.Float64() * coordMax),
			formatFloat(elevMin + rng.Float64()*(-elevMin)),
			formatFloat(lognormal(rng, logMean, logSigma)),
		}
	}
	return dataset.New(columns, rows)
}

// lognormal draws exp(N(mu, sigma)).
func lognormal(rng *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(mu + sigma*rng.NormFloat64())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', floatDecimals, 64)
}
