package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/orestat/orestat/internal/adapters/repository"
	"github.com/orestat/orestat/internal/domain/dataset"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/internal/domain/stats"
	"github.com/smartystreets/goconvey/convey"
)

func decode(csv string) *dataset.Dataset {
	ds, err := dataset.Decode(strings.NewReader(csv))
	if err != nil {
		panic(err)
	}
	return ds
}

func TestParseKind(t *testing.T) {
	convey.Convey("Given kind strings", t, func() {
		convey.Convey("When parsing the known kinds", func() {
			for _, s := range []string{"composite", "block"} {
				kind, err := repository.ParseKind(s)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(kind), convey.ShouldEqual, s)
			}
		})

		convey.Convey("When parsing anything else", func() {
			_, err := repository.ParseKind("drillholes")
			convey.So(errors.Is(err, repository.ErrUnknownKind), convey.ShouldBeTrue)
		})
	})
}

func TestMemStore(t *testing.T) {
	convey.Convey("Given an in-memory session store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)

		convey.Convey("When creating a session", func() {
			sess, err := store.Create(ctx)

			convey.Convey("Then it should come back empty with an id", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sess.ID, convey.ShouldNotBeEmpty)
				convey.So(sess.Composite.Dataset, convey.ShouldBeNil)
				convey.So(sess.Block.Dataset, convey.ShouldBeNil)
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
			})

			convey.Convey("And fetching it should return the same session", func() {
				got, err := store.Get(ctx, sess.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.ID, convey.ShouldEqual, sess.ID)
			})
		})

		convey.Convey("When fetching an unknown session", func() {
			_, err := store.Get(ctx, "nope")

			convey.Convey("Then it should report not found", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When storing a dataset with its derived records", func() {
			sess, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)

			ds := decode("X,Y,Z,GRADE\n1,2,3,0.5\n")
			m := mapping.Mapping{X: "X", Y: "Y", Z: "Z", Grade: "GRADE"}
			sum := stats.Summary{MeanGrade: 0.5}

			convey.So(store.SetDataset(ctx, sess.ID, repository.KindBlock, ds), convey.ShouldBeNil)
			convey.So(store.SetMapping(ctx, sess.ID, repository.KindBlock, m), convey.ShouldBeNil)
			convey.So(store.SetSummary(ctx, sess.ID, repository.KindBlock, sum), convey.ShouldBeNil)

			convey.Convey("Then the snapshot should carry all three", func() {
				got, err := store.Get(ctx, sess.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Block.Dataset, convey.ShouldEqual, ds)
				convey.So(*got.Block.Mapping, convey.ShouldResemble, m)
				convey.So(got.Block.Summary.MeanGrade, convey.ShouldEqual, 0.5)
				convey.So(got.Composite.Dataset, convey.ShouldBeNil)
			})

			convey.Convey("And replacing the dataset should clear the derived records", func() {
				other := decode("A,B,C,D\n1,2,3,4\n")
				convey.So(store.SetDataset(ctx, sess.ID, repository.KindBlock, other), convey.ShouldBeNil)

				got, err := store.Get(ctx, sess.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Block.Dataset, convey.ShouldEqual, other)
				convey.So(got.Block.Mapping, convey.ShouldBeNil)
				convey.So(got.Block.Summary, convey.ShouldBeNil)
			})
		})

		convey.Convey("When storing a nil dataset", func() {
			sess, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)

			err = store.SetDataset(ctx, sess.ID, repository.KindBlock, nil)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, repository.ErrNilDataset), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When deleting a session", func() {
			sess, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.So(store.Delete(ctx, sess.ID), convey.ShouldBeNil)

			convey.Convey("Then it should be gone", func() {
				_, err := store.Get(ctx, sess.ID)
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
				convey.So(errors.Is(store.Delete(ctx, sess.ID), repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMemStoreEviction(t *testing.T) {
	convey.Convey("Given a store with a small capacity and a fake clock", t, func() {
		ctx := context.Background()
		now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		store := repository.NewMemStore(ctx,
			repository.WithMaxSessions(2),
			repository.WithTTL(time.Hour),
			repository.WithClock(clock),
		)

		convey.Convey("When creating one session past the capacity", func() {
			first, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)
			now = now.Add(time.Minute)
			second, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)
			now = now.Add(time.Minute)
			third, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the least recently used session should be evicted", func() {
				convey.So(store.Count(ctx), convey.ShouldEqual, 2)
				_, err := store.Get(ctx, first.ID)
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
				_, err = store.Get(ctx, second.ID)
				convey.So(err, convey.ShouldBeNil)
				_, err = store.Get(ctx, third.ID)
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a session sits idle past the TTL", func() {
			stale, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)

			now = now.Add(2 * time.Hour)
			fresh, err := store.Create(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should be swept on the next create", func() {
				_, err := store.Get(ctx, stale.ID)
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
				_, err = store.Get(ctx, fresh.ID)
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}
