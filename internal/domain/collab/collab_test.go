package collab_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/peerhire/internal/domain/collab"
	"github.com/okian/peerhire/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rating(client, freelancer string, score float64) model.Rating {
	return model.Rating{ClientID: client, FreelancerID: freelancer, Score: score}
}

func TestMatrix(t *testing.T) {
	Convey("Given a sparse rating set", t, func() {
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		m := collab.NewMatrix([]model.Rating{
			rating("C1", "F1", 5),
			rating("C1", "F2", 3),
			rating("C2", "F1", 4),
			rating("C2", "F2", 2),
			rating("C3", "F1", 5),
			{ClientID: "C4", FreelancerID: "F9", Score: 1, Timestamp: base.Add(time.Hour)},
			{ClientID: "C4", FreelancerID: "F9", Score: 4, Timestamp: base},
		})

		Convey("Then the latest rating of a repeated pair wins", func() {
			v, ok := m.Rating("C4", "F9")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1)
			So(m.NumRatings(), ShouldEqual, 6)
		})

		Convey("Then absent pairs are unrated rather than zero", func() {
			_, ok := m.Rating("C3", "F2")
			So(ok, ShouldBeFalse)
			So(m.HasClient("C9"), ShouldBeFalse)
		})

		Convey("Then clients and raters are sorted", func() {
			So(m.Clients(), ShouldResemble, []string{"C1", "C2", "C3", "C4"})
			So(m.Raters("F1"), ShouldResemble, []string{"C1", "C2", "C3"})
		})

		Convey("Then similarity uses only co-rated freelancers", func() {
			want := (5*4 + 3*2) / (math.Sqrt(25+9) * math.Sqrt(16+4))
			So(m.Similarity("C1", "C2"), ShouldAlmostEqual, want, 1e-12)
		})

		Convey("Then similarity is symmetric", func() {
			So(m.Similarity("C1", "C2"), ShouldEqual, m.Similarity("C2", "C1"))
		})

		Convey("Then fewer than two co-rated freelancers gives 0", func() {
			So(m.Similarity("C1", "C3"), ShouldEqual, 0)
			So(m.Similarity("C1", "C4"), ShouldEqual, 0)
			So(m.Similarity("C1", "nobody"), ShouldEqual, 0)
		})
	})

	Convey("Given two ratings with the same timestamp", t, func() {
		m := collab.NewMatrix([]model.Rating{rating("C1", "F1", 2), rating("C1", "F1", 5)})
		v, _ := m.Rating("C1", "F1")
		So(v, ShouldEqual, 5)
	})
}

func TestScorer(t *testing.T) {
	Convey("Given clients with overlapping histories", t, func() {
		m := collab.NewMatrix([]model.Rating{
			rating("C1", "F1", 5),
			rating("C1", "F2", 4),
			rating("C2", "F1", 5),
			rating("C2", "F2", 4),
			rating("C2", "F3", 5),
			rating("C3", "F1", 1),
			rating("C3", "F2", 5),
			rating("C3", "F3", 1),
			rating("C3", "F4", 2),
		})
		s := collab.NewScorer(m)

		Convey("When predicting for a freelancer only neighbours rated", func() {
			v, ok := s.Predict("C1", "F3")

			Convey("Then it is the similarity-weighted mean divided by 5", func() {
				s12 := m.Similarity("C1", "C2")
				s13 := m.Similarity("C1", "C3")
				want := (s12*5 + s13*1) / (s12 + s13) / 5
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, want, 1e-12)
				So(v, ShouldBeBetweenOrEqual, 0, 1)
			})
		})

		Convey("When no neighbour rated the freelancer", func() {
			_, ok := s.Predict("C1", "F99")
			So(ok, ShouldBeFalse)
		})

		Convey("When the client has no history", func() {
			_, ok := s.Predict("stranger", "F1")
			So(ok, ShouldBeFalse)
			So(s.ForClient("stranger").NeighbourCount(), ShouldEqual, 0)
			So(s.RecommendForClient("stranger", 5), ShouldBeEmpty)
		})

		Convey("Then neighbours are ordered by similarity", func() {
			ns := s.Neighbours("C1")
			So(len(ns), ShouldEqual, 2)
			So(ns[0].ClientID, ShouldEqual, "C2")
			So(ns[0].Similarity, ShouldBeGreaterThan, ns[1].Similarity)
		})

		Convey("When neighbours are capped at one", func() {
			capped := collab.NewScorer(m, collab.WithMaxNeighbours(1))
			v, ok := capped.Predict("C1", "F3")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 1.0, 1e-12)
			So(len(capped.Neighbours("C1")), ShouldEqual, 1)
		})

		Convey("When recommending for the client alone", func() {
			preds := s.RecommendForClient("C1", 10)

			Convey("Then already rated freelancers are excluded", func() {
				ids := make([]string, 0, len(preds))
				for _, p := range preds {
					ids = append(ids, p.FreelancerID)
				}
				So(ids, ShouldResemble, []string{"F3", "F4"})
				So(preds[0].Score, ShouldBeGreaterThan, preds[1].Score)
			})
		})
	})
}
