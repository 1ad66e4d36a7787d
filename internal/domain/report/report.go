// Package report renders the comparison of two statistics summaries as the
// fixed ten-row CSV document offered for download.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/orestat/orestat/internal/domain/stats"
)

// header is the fixed first row of every report.
var header = []string{"Metric", "Composite 3D", "Block Model", "Difference (%)"}

// row describes one metric line: label, value formatting precision, and
// accessors into the two summaries and the comparison.
type row struct {
	label    string
	decimals int
	value    func(stats.Summary) float64
	delta    func(stats.Comparison) stats.Delta
}

// rows fixes the metric order of the report.
var rows = []row{
	{"Total volume (m3)", 1, func(s stats.Summary) float64 { return s.Volume }, func(c stats.Comparison) stats.Delta { return c.Volume }},
	{"Estimated tonnage (tonnes)", 1, func(s stats.Summary) float64 { return s.Tonnage }, func(c stats.Comparison) stats.Delta { return c.Tonnage }},
	{"Average density (t/m3)", 2, func(s stats.Summary) float64 { return s.Density }, func(c stats.Comparison) stats.Delta { return c.Density }},
	{"Mean grade (g/t)", 2, func(s stats.Summary) float64 { return s.MeanGrade }, func(c stats.Comparison) stats.Delta { return c.MeanGrade }},
	{"Minimum grade (g/t)", 2, func(s stats.Summary) float64 { return s.MinGrade }, func(c stats.Comparison) stats.Delta { return c.MinGrade }},
	{"Maximum grade (g/t)", 2, func(s stats.Summary) float64 { return s.MaxGrade }, func(c stats.Comparison) stats.Delta { return c.MaxGrade }},
	{"Standard deviation (g/t)", 2, func(s stats.Summary) float64 { return s.StdDev }, func(c stats.Comparison) stats.Delta { return c.StdDev }},
	{"Contained metal (kg)", 1, func(s stats.Summary) float64 { return s.ContainedMetal }, func(c stats.Comparison) stats.Delta { return c.ContainedMetal }},
	{"Estimated recovery (%)", 1, func(s stats.Summary) float64 { return s.Recovery }, func(c stats.Comparison) stats.Delta { return c.Recovery }},
	{"Recoverable metal (kg)", 1, func(s stats.Summary) float64 { return s.RecoverableMetal }, func(c stats.Comparison) stats.Delta { return c.RecoverableMetal }},
}

// Write renders the comparison report for the composite and block summaries.
func Write(w io.Writer, composite, block stats.Summary) error {
	cmp := stats.Compare(composite, block)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range rows {
		rec := []string{
			r.label,
			formatValue(r.value(composite), r.decimals),
			formatValue(r.value(block), r.decimals),
			formatDelta(r.delta(cmp)),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Filename yields the timestamped download name for a report generated now.
func Filename(now time.Time) string {
	return "comparison_report_" + now.Format("20060102_150405") + ".csv"
}

func formatValue(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

func formatDelta(d stats.Delta) string {
	if !d.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", d.Percent)
}
