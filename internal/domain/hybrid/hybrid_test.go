package hybrid_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/peerhire/internal/domain/hybrid"
	"github.com/okian/peerhire/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestBlend(t *testing.T) {
	Convey("Given a content score", t, func() {
		Convey("When there is no collaborative signal", func() {
			Convey("Then the content score is returned for any valid weight", func() {
				for _, w := range []float64{0, 0.3, 0.5, 1} {
					got, err := hybrid.Blend(0.42, nil, w)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, 0.42)
				}
			})
		})

		Convey("When a collaborative signal exists", func() {
			got, err := hybrid.Blend(0.6, ptr(0.9), hybrid.DefaultCFWeight)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, 0.6*0.7+0.9*0.3, 1e-12)

			Convey("Then the boundary weights select one side", func() {
				zero, _ := hybrid.Blend(0.6, ptr(0.9), 0)
				one, _ := hybrid.Blend(0.6, ptr(0.9), 1)
				So(zero, ShouldEqual, 0.6)
				So(one, ShouldEqual, 0.9)
			})
		})

		Convey("When the weight is out of range", func() {
			for _, w := range []float64{-0.1, 1.01, math.NaN()} {
				_, err := hybrid.Blend(0.5, nil, w)
				So(errors.Is(err, hybrid.ErrInvalidWeight), ShouldBeTrue)
			}
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given unordered entries with ties", t, func() {
		entries := []types.Entry{
			{FreelancerID: "F3", BlendedScore: 0.5},
			{FreelancerID: "F1", BlendedScore: 0.9},
			{FreelancerID: "F4", BlendedScore: 0.5},
			{FreelancerID: "F2", BlendedScore: 0.5},
		}

		Convey("When ranking the top three", func() {
			ranked, err := hybrid.Rank(entries, 3)
			So(err, ShouldBeNil)

			Convey("Then order is score descending then id ascending", func() {
				So(len(ranked), ShouldEqual, 3)
				So(ranked[0].FreelancerID, ShouldEqual, "F1")
				So(ranked[1].FreelancerID, ShouldEqual, "F2")
				So(ranked[2].FreelancerID, ShouldEqual, "F3")
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[2].Rank, ShouldEqual, 3)
			})

			Convey("Then the input is left untouched", func() {
				So(entries[0].FreelancerID, ShouldEqual, "F3")
				So(entries[0].Rank, ShouldEqual, 0)
			})
		})

		Convey("When the limit exceeds the list", func() {
			ranked, err := hybrid.Rank(entries, 10)
			So(err, ShouldBeNil)
			So(len(ranked), ShouldEqual, 4)
		})

		Convey("When the limit is below one", func() {
			_, err := hybrid.Rank(entries, 0)
			So(errors.Is(err, hybrid.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}
