// Package stats computes the descriptive summary for one dataset's grade
// column and the field-by-field comparison between two summaries.
//
// Volume, tonnage, density, and recovery are placeholder figures selected
// by the grade column's name rather than derived from the data. Replacing
// them with a real volumetric estimate would change observable behavior.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/orestat/orestat/internal/domain/dataset"
)

// Reserves holds the placeholder resource figures for one model category.
type Reserves struct {
	Volume   float64 // m³
	Tonnage  float64 // tonnes
	Density  float64 // t/m³
	Recovery float64 // percent
}

// Default placeholder figures.
var (
	defaultCompositeReserves = Reserves{Volume: 1_250_000, Tonnage: 3_375_000, Density: 2.7, Recovery: 92.5}
	defaultBlockReserves     = Reserves{Volume: 1_275_000, Tonnage: 3_442_500, Density: 2.7, Recovery: 91.0}
)

// Summary is the fixed-shape statistics record for one dataset.
// Aggregate fields are NaN when the grade column has no usable values;
// callers must treat NaN as "undefined", never as a number to display.
type Summary struct {
	Volume  float64
	Tonnage float64
	Density float64

	MeanGrade float64
	MinGrade  float64
	MaxGrade  float64
	StdDev    float64

	ContainedMetal   float64
	Recovery         float64
	RecoverableMetal float64
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithCompositeReserves overrides the placeholder figures used when the
// grade column name contains "composite".
func WithCompositeReserves(r Reserves) Option {
	return func(c *Calculator) {
		c.composite = r
	}
}

// WithBlockReserves overrides the placeholder figures used for every other
// grade column name.
func WithBlockReserves(r Reserves) Option {
	return func(c *Calculator) {
		c.block = r
	}
}

// Calculator produces Summary records from datasets.
type Calculator struct {
	composite Reserves
	block     Reserves
}

// NewCalculator creates a Calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		composite: defaultCompositeReserves,
		block:     defaultBlockReserves,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize computes the statistics record for one grade column.
// The column must exist; values that do not parse as numbers are excluded
// from the aggregates. An empty usable set yields NaN aggregates.
func (c *Calculator) Summarize(ds *dataset.Dataset, gradeColumn string) (Summary, error) {
	if ds == nil {
		return Summary{}, ErrNilDataset
	}
	grades, err := ds.NumericColumn(gradeColumn)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrInvalidColumn, err)
	}

	// The placeholder set is keyed on the raw column name.
	reserves := c.block
	if strings.Contains(gradeColumn, "composite") {
		reserves = c.composite
	}

	mean, minG, maxG, std := aggregate(grades)

	s := Summary{
		Volume:    reserves.Volume,
		Tonnage:   reserves.Tonnage,
		Density:   reserves.Density,
		MeanGrade: mean,
		MinGrade:  minG,
		MaxGrade:  maxG,
		StdDev:    std,
		Recovery:  reserves.Recovery,
	}
	// g/t grade over tonnes gives grams; /1000 converts to kilograms.
	s.ContainedMetal = reserves.Tonnage * mean / 1000
	s.RecoverableMetal = s.ContainedMetal * reserves.Recovery / 100
	return s, nil
}

// aggregate reduces the non-NaN values to mean/min/max/sample-std.
// Zero usable values make everything NaN; a single value leaves the
// sample standard deviation (n−1 denominator) undefined.
func aggregate(values []float64) (mean, minV, maxV, std float64) {
	nan := math.NaN()
	var sum float64
	n := 0
	minV, maxV = nan, nan
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if n == 0 {
			minV, maxV = v, v
		} else {
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
		sum += v
		n++
	}
	if n == 0 {
		return nan, nan, nan, nan
	}
	mean = sum / float64(n)
	if n < 2 {
		return mean, minV, maxV, nan
	}
	var ss float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		ss += d * d
	}
	std = math.Sqrt(ss / float64(n-1))
	return mean, minV, maxV, std
}
