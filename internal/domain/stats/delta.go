package stats

import "math"

// Direction classifies a delta's sign for display styling.
// Exact zero is its own category, not folded into positive or negative.
type Direction string

// Direction values.
const (
	Positive Direction = "positive"
	Negative Direction = "negative"
	Neutral  Direction = "neutral"
)

// Delta is the signed percentage difference of a second record's field
// relative to the first. A zero or undefined first value leaves the delta
// undefined rather than raising; Defined is false and Percent is NaN.
type Delta struct {
	Percent   float64
	Defined   bool
	Direction Direction
}

// Diff computes (second/first − 1) × 100 with undefined propagation.
func Diff(first, second float64) Delta {
	if first == 0 || math.IsNaN(first) || math.IsNaN(second) {
		return Delta{Percent: math.NaN(), Defined: false, Direction: Neutral}
	}
	pct := (second/first - 1) * 100
	return Delta{Percent: pct, Defined: true, Direction: Classify(pct)}
}

// Classify tags a finite percentage by sign.
func Classify(pct float64) Direction {
	switch {
	case pct > 0:
		return Positive
	case pct < 0:
		return Negative
	default:
		return Neutral
	}
}

// Comparison holds one Delta per Summary field, in report order.
type Comparison struct {
	Volume           Delta
	Tonnage          Delta
	Density          Delta
	MeanGrade        Delta
	MinGrade         Delta
	MaxGrade         Delta
	StdDev           Delta
	ContainedMetal   Delta
	Recovery         Delta
	RecoverableMetal Delta
}

// Compare produces the per-field deltas of second relative to first.
func Compare(first, second Summary) Comparison {
	return Comparison{
		Volume:           Diff(first.Volume, second.Volume),
		Tonnage:          Diff(first.Tonnage, second.Tonnage),
		Density:          Diff(first.Density, second.Density),
		MeanGrade:        Diff(first.MeanGrade, second.MeanGrade),
		MinGrade:         Diff(first.MinGrade, second.MinGrade),
		MaxGrade:         Diff(first.MaxGrade, second.MaxGrade),
		StdDev:           Diff(first.StdDev, second.StdDev),
		ContainedMetal:   Diff(first.ContainedMetal, second.ContainedMetal),
		Recovery:         Diff(first.Recovery, second.Recovery),
		RecoverableMetal: Diff(first.RecoverableMetal, second.RecoverableMetal),
	}
}
