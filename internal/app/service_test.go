package service_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/orestat/orestat/internal/adapters/repository"
	service "github.com/orestat/orestat/internal/app"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const blockCSV = "X,Y,Z,GRADE\n0,0,-10,1\n10,0,-10,2\n0,10,-20,3\n"
const compositeCSV = "EAST,NORTH,ELEV,composite_au\n1,1,-5,1\n2,2,-6,3\n"

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func startService(ctx context.Context, opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New()

		convey.Convey("When starting it", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			convey.Convey("Then it should start and report stats", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["activeSessions"], convey.ShouldEqual, 0)
			})

			convey.Convey("And starting again should be a no-op", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestUploadWorkflow(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startService(ctx)
		defer svc.Stop()

		id, err := svc.CreateSession(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(id, convey.ShouldNotBeEmpty)

		convey.Convey("When uploading a block model CSV", func() {
			result, err := svc.LoadDataset(ctx, id, repository.KindBlock, strings.NewReader(blockCSV))

			convey.Convey("Then it should decode and suggest a full mapping", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.Rows, convey.ShouldEqual, 3)
				convey.So(result.Columns, convey.ShouldResemble, []string{"X", "Y", "Z", "GRADE"})
				convey.So(result.Suggestions[mapping.RoleGrade].Column, convey.ShouldEqual, "GRADE")
				convey.So(result.Suggestions[mapping.RoleGrade].Matched, convey.ShouldBeTrue)
			})

			convey.Convey("And the columns should be queryable afterwards", func() {
				convey.So(err, convey.ShouldBeNil)
				columns, err := svc.Columns(ctx, id, repository.KindBlock)
				convey.So(err, convey.ShouldBeNil)
				convey.So(columns, convey.ShouldResemble, []string{"X", "Y", "Z", "GRADE"})
			})
		})

		convey.Convey("When uploading into an unknown session", func() {
			_, err := svc.LoadDataset(ctx, "nope", repository.KindBlock, strings.NewReader(blockCSV))

			convey.Convey("Then it should report not found", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When uploading malformed CSV", func() {
			_, err := svc.LoadDataset(ctx, id, repository.KindBlock, strings.NewReader(""))

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When querying columns before any upload", func() {
			_, err := svc.Columns(ctx, id, repository.KindComposite)

			convey.Convey("Then it should report the missing dataset", func() {
				convey.So(errors.Is(err, service.ErrDatasetMissing), convey.ShouldBeTrue)
			})
		})
	})
}

func TestAnalysisWorkflow(t *testing.T) {
	convey.Convey("Given a session with both datasets uploaded", t, func() {
		ctx := context.Background()
		svc := startService(ctx)
		defer svc.Stop()

		id, err := svc.CreateSession(ctx)
		convey.So(err, convey.ShouldBeNil)
		_, err = svc.LoadDataset(ctx, id, repository.KindComposite, strings.NewReader(compositeCSV))
		convey.So(err, convey.ShouldBeNil)
		_, err = svc.LoadDataset(ctx, id, repository.KindBlock, strings.NewReader(blockCSV))
		convey.So(err, convey.ShouldBeNil)

		compositeMapping := mapping.Mapping{X: "EAST", Y: "NORTH", Z: "ELEV", Grade: "composite_au"}
		blockMapping := mapping.Mapping{X: "X", Y: "Y", Z: "Z", Grade: "GRADE"}

		convey.Convey("When applying both mappings", func() {
			summaries, err := svc.ApplyMapping(ctx, id, compositeMapping, blockMapping)

			convey.Convey("Then both summaries should be computed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summaries, convey.ShouldContainKey, repository.KindComposite)
				convey.So(summaries, convey.ShouldContainKey, repository.KindBlock)
				convey.So(summaries[repository.KindComposite].MeanGrade, convey.ShouldEqual, 2.0)
				convey.So(summaries[repository.KindComposite].Recovery, convey.ShouldEqual, 92.5)
				convey.So(summaries[repository.KindBlock].MeanGrade, convey.ShouldEqual, 2.0)
				convey.So(summaries[repository.KindBlock].Recovery, convey.ShouldEqual, 91.0)
			})

			convey.Convey("And statistics should include the comparison", func() {
				convey.So(err, convey.ShouldBeNil)
				composite, block, cmp, err := svc.Statistics(ctx, id)
				convey.So(err, convey.ShouldBeNil)
				convey.So(composite, convey.ShouldNotBeNil)
				convey.So(block, convey.ShouldNotBeNil)
				convey.So(cmp, convey.ShouldNotBeNil)
				convey.So(cmp.MeanGrade.Percent, convey.ShouldEqual, 0.0)
			})

			convey.Convey("And sampled points should obey the limit", func() {
				convey.So(err, convey.ShouldBeNil)
				points, err := svc.SamplePoints(ctx, id, repository.KindBlock, 2)
				convey.So(err, convey.ShouldBeNil)
				convey.So(points.X, convey.ShouldHaveLength, 2)
				convey.So(points.Y, convey.ShouldHaveLength, 2)
				convey.So(points.Z, convey.ShouldHaveLength, 2)
				convey.So(points.Grade, convey.ShouldHaveLength, 2)
			})

			convey.Convey("And the report should render", func() {
				convey.So(err, convey.ShouldBeNil)
				var buf bytes.Buffer
				filename, err := svc.WriteReport(ctx, id, &buf)
				convey.So(err, convey.ShouldBeNil)
				convey.So(filename, convey.ShouldStartWith, "comparison_report_")
				convey.So(filename, convey.ShouldEndWith, ".csv")
				convey.So(buf.String(), convey.ShouldContainSubstring, "Metric,Composite 3D,Block Model,Difference (%)")
				convey.So(buf.String(), convey.ShouldContainSubstring, "Recoverable metal (kg)")
			})
		})

		convey.Convey("When applying a mapping with a missing column", func() {
			bad := mapping.Mapping{X: "EAST", Y: "NORTH", Z: "ELEV", Grade: "CU"}
			_, err := svc.ApplyMapping(ctx, id, bad, blockMapping)

			convey.Convey("Then it should fail validation", func() {
				convey.So(errors.Is(err, mapping.ErrColumnMissing), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When requesting points before mapping", func() {
			_, err := svc.SamplePoints(ctx, id, repository.KindBlock, 10)

			convey.Convey("Then it should report the missing mapping", func() {
				convey.So(errors.Is(err, service.ErrMappingNotApplied), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When requesting the report before analysis", func() {
			var buf bytes.Buffer
			_, err := svc.WriteReport(ctx, id, &buf)

			convey.Convey("Then it should report that summaries are missing", func() {
				convey.So(errors.Is(err, service.ErrNotReady), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoadExample(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startService(ctx, service.WithSamplerSource(rand.NewSource(1)))
		defer svc.Stop()

		id, err := svc.CreateSession(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When loading the example datasets", func() {
			summaries, err := svc.LoadExample(ctx, id)

			convey.Convey("Then both summaries should be ready immediately", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summaries[repository.KindComposite].MeanGrade, convey.ShouldBeGreaterThan, 0.0)
				convey.So(summaries[repository.KindBlock].MeanGrade, convey.ShouldBeGreaterThan, 0.0)

				composite, block, cmp, err := svc.Statistics(ctx, id)
				convey.So(err, convey.ShouldBeNil)
				convey.So(composite, convey.ShouldNotBeNil)
				convey.So(block, convey.ShouldNotBeNil)
				convey.So(cmp, convey.ShouldNotBeNil)
			})

			convey.Convey("And point sampling should work without applying a mapping", func() {
				convey.So(err, convey.ShouldBeNil)
				points, err := svc.SamplePoints(ctx, id, repository.KindComposite, 100)
				convey.So(err, convey.ShouldBeNil)
				convey.So(points.X, convey.ShouldHaveLength, 100)
			})

			convey.Convey("And the report should be downloadable", func() {
				convey.So(err, convey.ShouldBeNil)
				var buf bytes.Buffer
				_, err := svc.WriteReport(ctx, id, &buf)
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestSampleLimitClamp(t *testing.T) {
	convey.Convey("Given a service with a small sample limit", t, func() {
		ctx := context.Background()
		svc := startService(ctx,
			service.WithSampleLimit(5),
			service.WithSamplerSource(rand.NewSource(1)),
		)
		defer svc.Stop()

		id, err := svc.CreateSession(ctx)
		convey.So(err, convey.ShouldBeNil)
		_, err = svc.LoadExample(ctx, id)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When asking for more points than the configured limit", func() {
			points, err := svc.SamplePoints(ctx, id, repository.KindBlock, 1000)

			convey.Convey("Then the limit should be clamped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(points.X, convey.ShouldHaveLength, 5)
			})
		})

		convey.Convey("When asking with no limit at all", func() {
			points, err := svc.SamplePoints(ctx, id, repository.KindBlock, 0)

			convey.Convey("Then the configured default should apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(points.X, convey.ShouldHaveLength, 5)
			})
		})
	})
}
