package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	model "github.com/okian/peerhire/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestExperienceLevel(t *testing.T) {
	convey.Convey("Given experience level names", t, func() {
		convey.Convey("Then canonical names and aliases parse to the same ordinal", func() {
			cases := map[string]model.ExperienceLevel{
				"junior":       model.Junior,
				"Entry":        model.Junior,
				"mid":          model.Mid,
				"Intermediate": model.Mid,
				"SENIOR":       model.Senior,
				"advanced":     model.Senior,
				" expert ":     model.Expert,
			}
			for in, want := range cases {
				got, err := model.ParseExperience(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, want)
			}
		})

		convey.Convey("Then levels are ordered", func() {
			convey.So(model.Junior < model.Mid, convey.ShouldBeTrue)
			convey.So(model.Mid < model.Senior, convey.ShouldBeTrue)
			convey.So(model.Senior < model.Expert, convey.ShouldBeTrue)
		})

		convey.Convey("Then unknown names are rejected", func() {
			_, err := model.ParseExperience("guru")
			convey.So(errors.Is(err, model.ErrUnknownExperience), convey.ShouldBeTrue)
		})

		convey.Convey("Then JSON round-trips through canonical names", func() {
			var job model.Job
			err := json.Unmarshal([]byte(`{"skills_required":["go"],"experience_level":"Advanced"}`), &job)
			convey.So(err, convey.ShouldBeNil)
			convey.So(job.Experience, convey.ShouldEqual, model.Senior)

			out, err := json.Marshal(job.Experience)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(out), convey.ShouldEqual, `"senior"`)
		})

		convey.Convey("Then an unset level cannot be marshalled", func() {
			_, err := json.Marshal(model.ExperienceUnset)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestBudget(t *testing.T) {
	convey.Convey("Given budgets", t, func() {
		convey.Convey("When hourly with a valid range", func() {
			b := model.Budget{Type: model.BudgetHourly, MinRate: 40, MaxRate: 60}
			lo, hi, ok := b.HourlyRange()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(lo, convey.ShouldEqual, 40)
			convey.So(hi, convey.ShouldEqual, 60)
			convey.So(b.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the type is empty it is treated as hourly", func() {
			_, _, ok := model.Budget{MinRate: 10, MaxRate: 20}.HourlyRange()
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("When fixed there is no hourly range", func() {
			_, _, ok := model.Budget{Type: model.BudgetFixed, Amount: 5000}.HourlyRange()
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When min exceeds max", func() {
			err := model.Budget{MinRate: 60, MaxRate: 40}.Validate()
			convey.So(errors.Is(err, model.ErrInvalidBudget), convey.ShouldBeTrue)
		})
	})
}

func TestFreelancerRated(t *testing.T) {
	convey.Convey("Given freelancers", t, func() {
		convey.So((&model.Freelancer{}).Rated(), convey.ShouldBeFalse)
		convey.So((&model.Freelancer{AvgRating: 4.5}).Rated(), convey.ShouldBeTrue)

		f := &model.Freelancer{PastProjects: []model.Project{{ClientID: "C1", Rating: 0}, {ClientID: "C2", Rating: 4}}}
		convey.So(f.Rated(), convey.ShouldBeTrue)
		convey.So(f.ProjectRatings(), convey.ShouldResemble, []float64{0, 4})
	})
}
