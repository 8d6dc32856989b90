package matcher_test

import (
	"context"
	"testing"

	matcher "github.com/okian/muster/internal/domain/matcher"
	"github.com/okian/muster/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func descriptorOf(vals ...float64) model.Descriptor {
	return model.Descriptor(vals)
}

func TestEuclideanMatcher(t *testing.T) {
	Convey("Given a matcher and a roster", t, func() {
		m := matcher.New()
		roster := []model.KnownPerson{
			{PersonID: "A", PersonName: "Ada", Descriptor: descriptorOf(0, 0, 0)},
			{PersonID: "B", PersonName: "Bob", Descriptor: descriptorOf(1, 0, 0)},
		}

		Convey("When the probe is identical to a roster descriptor", func() {
			match, ok := m.Match(context.Background(), descriptorOf(0, 0, 0), roster)

			Convey("Then it should match that person with confidence 1", func() {
				So(ok, ShouldBeTrue)
				So(match.PersonID, ShouldEqual, "A")
				So(match.PersonName, ShouldEqual, "Ada")
				So(match.Confidence, ShouldAlmostEqual, 1.0, 1e-9)
				So(match.Distance, ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When the probe is far from every descriptor", func() {
			match, ok := m.Match(context.Background(), descriptorOf(10, 10, 10), roster)

			Convey("Then it should still return the arg-min with confidence 0", func() {
				So(ok, ShouldBeTrue)
				So(match.PersonID, ShouldEqual, "B")
				So(match.Confidence, ShouldEqual, 0)
			})
		})

		Convey("When the probe sits between entries", func() {
			match, ok := m.Match(context.Background(), descriptorOf(0.9, 0, 0), roster)

			Convey("Then the closer entry wins", func() {
				So(ok, ShouldBeTrue)
				So(match.PersonID, ShouldEqual, "B")
				So(match.Confidence, ShouldBeGreaterThan, 0.8)
			})
		})

		Convey("When the roster is empty", func() {
			_, ok := m.Match(context.Background(), descriptorOf(0, 0, 0), nil)

			Convey("Then there is no match", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the probe is empty", func() {
			_, ok := m.Match(context.Background(), nil, roster)

			Convey("Then there is no match", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When roster entries have mismatched dimensions", func() {
			mixed := []model.KnownPerson{
				{PersonID: "bad", Descriptor: descriptorOf(0, 0)},
				{PersonID: "C", PersonName: "Cleo", Descriptor: descriptorOf(0.5, 0, 0)},
			}
			match, ok := m.Match(context.Background(), descriptorOf(0, 0, 0), mixed)

			Convey("Then incomparable entries are skipped", func() {
				So(ok, ShouldBeTrue)
				So(match.PersonID, ShouldEqual, "C")
			})
		})

		Convey("When every roster entry is incomparable", func() {
			bad := []model.KnownPerson{
				{PersonID: "bad", Descriptor: descriptorOf(0, 0)},
			}
			_, ok := m.Match(context.Background(), descriptorOf(0, 0, 0), bad)

			Convey("Then there is no match", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a person has multiple enrolled samples", func() {
			multi := []model.KnownPerson{
				{PersonID: "A", PersonName: "Ada", Descriptor: descriptorOf(5, 5, 5)},
				{PersonID: "A", PersonName: "Ada", Descriptor: descriptorOf(0.1, 0, 0)},
				{PersonID: "B", PersonName: "Bob", Descriptor: descriptorOf(3, 3, 3)},
			}
			match, ok := m.Match(context.Background(), descriptorOf(0, 0, 0), multi)

			Convey("Then the closest sample decides the identity", func() {
				So(ok, ShouldBeTrue)
				So(match.PersonID, ShouldEqual, "A")
			})
		})
	})
}

func TestConfidenceMonotonicity(t *testing.T) {
	Convey("Given probes at increasing distances", t, func() {
		m := matcher.New()
		roster := []model.KnownPerson{
			{PersonID: "A", Descriptor: descriptorOf(0, 0, 0)},
		}

		Convey("When matching each probe", func() {
			prev := 2.0
			for _, step := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.99, 1.0, 2.0} {
				match, ok := m.Match(context.Background(), descriptorOf(step, 0, 0), roster)
				So(ok, ShouldBeTrue)
				So(match.Confidence, ShouldBeLessThanOrEqualTo, prev)
				So(match.Confidence, ShouldBeBetweenOrEqual, 0, 1)
				prev = match.Confidence
			}
		})
	})
}

func TestDistanceCapOption(t *testing.T) {
	Convey("Given a matcher with a custom distance cap", t, func() {
		m := matcher.New(matcher.WithDistanceCap(2.0))
		roster := []model.KnownPerson{
			{PersonID: "A", Descriptor: descriptorOf(0, 0, 0)},
		}

		Convey("When the probe is at distance 1", func() {
			match, ok := m.Match(context.Background(), descriptorOf(1, 0, 0), roster)

			Convey("Then confidence is halfway instead of zero", func() {
				So(ok, ShouldBeTrue)
				So(match.Confidence, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})
	})
}
