package stats_test

import (
	"math"
	"testing"

	"github.com/orestat/orestat/internal/domain/stats"
	"github.com/smartystreets/goconvey/convey"
)

func TestDiff(t *testing.T) {
	convey.Convey("Given pairs of values", t, func() {
		convey.Convey("When the second value is larger", func() {
			d := stats.Diff(100, 110)

			convey.Convey("Then the delta should be positive", func() {
				convey.So(d.Defined, convey.ShouldBeTrue)
				convey.So(d.Percent, convey.ShouldAlmostEqual, 10.0, 1e-9)
				convey.So(d.Direction, convey.ShouldEqual, stats.Positive)
			})
		})

		convey.Convey("When the second value is smaller", func() {
			d := stats.Diff(100, 75)

			convey.Convey("Then the delta should be negative", func() {
				convey.So(d.Defined, convey.ShouldBeTrue)
				convey.So(d.Percent, convey.ShouldAlmostEqual, -25.0, 1e-9)
				convey.So(d.Direction, convey.ShouldEqual, stats.Negative)
			})
		})

		convey.Convey("When the values are equal", func() {
			d := stats.Diff(42, 42)

			convey.Convey("Then the delta should be exactly zero and neutral", func() {
				convey.So(d.Defined, convey.ShouldBeTrue)
				convey.So(d.Percent, convey.ShouldEqual, 0.0)
				convey.So(d.Direction, convey.ShouldEqual, stats.Neutral)
			})
		})

		convey.Convey("When the baseline is zero", func() {
			d := stats.Diff(0, 10)

			convey.Convey("Then the delta should be undefined and neutral", func() {
				convey.So(d.Defined, convey.ShouldBeFalse)
				convey.So(math.IsNaN(d.Percent), convey.ShouldBeTrue)
				convey.So(d.Direction, convey.ShouldEqual, stats.Neutral)
			})
		})

		convey.Convey("When either value is undefined", func() {
			first := stats.Diff(math.NaN(), 10)
			second := stats.Diff(10, math.NaN())

			convey.Convey("Then the delta should be undefined", func() {
				convey.So(first.Defined, convey.ShouldBeFalse)
				convey.So(second.Defined, convey.ShouldBeFalse)
			})
		})
	})
}

func TestCompare(t *testing.T) {
	convey.Convey("Given two computed summaries", t, func() {
		calc := stats.NewCalculator()

		convey.Convey("When comparing a summary against itself", func() {
			ds := mustDataset("GRADE\n1\n2\n3\n")
			s, err := calc.Summarize(ds, "GRADE")
			convey.So(err, convey.ShouldBeNil)

			cmp := stats.Compare(s, s)

			convey.Convey("Then every delta should be zero and neutral", func() {
				for _, d := range []stats.Delta{
					cmp.Volume, cmp.Tonnage, cmp.Density,
					cmp.MeanGrade, cmp.MinGrade, cmp.MaxGrade, cmp.StdDev,
					cmp.ContainedMetal, cmp.Recovery, cmp.RecoverableMetal,
				} {
					convey.So(d.Defined, convey.ShouldBeTrue)
					convey.So(d.Percent, convey.ShouldEqual, 0.0)
					convey.So(d.Direction, convey.ShouldEqual, stats.Neutral)
				}
			})
		})

		convey.Convey("When the first summary has undefined aggregates", func() {
			empty, err := calc.Summarize(mustDataset("GRADE\nabc\n"), "GRADE")
			convey.So(err, convey.ShouldBeNil)
			full, err := calc.Summarize(mustDataset("GRADE\n1\n2\n"), "GRADE")
			convey.So(err, convey.ShouldBeNil)

			cmp := stats.Compare(empty, full)

			convey.Convey("Then the grade deltas should be undefined but the reserve deltas defined", func() {
				convey.So(cmp.MeanGrade.Defined, convey.ShouldBeFalse)
				convey.So(cmp.StdDev.Defined, convey.ShouldBeFalse)
				convey.So(cmp.ContainedMetal.Defined, convey.ShouldBeFalse)
				convey.So(cmp.Volume.Defined, convey.ShouldBeTrue)
				convey.So(cmp.Recovery.Defined, convey.ShouldBeTrue)
			})
		})
	})
}
