package validation_test

import (
	"errors"
	"testing"

	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/validation"
	"github.com/smartystreets/goconvey/convey"
)

func TestValidateStruct(t *testing.T) {
	convey.Convey("Given a complete job", t, func() {
		job := model.Job{
			Skills:     []string{"go"},
			Experience: model.Mid,
			Budget:     model.Budget{Type: model.BudgetHourly, MinRate: 10, MaxRate: 20},
		}

		convey.Convey("Then it passes", func() {
			convey.So(validation.ValidateStruct(&job), convey.ShouldBeNil)
		})

		convey.Convey("When skills and experience are missing", func() {
			job.Skills = nil
			job.Experience = model.ExperienceUnset
			err := validation.ValidateStruct(&job)

			convey.Convey("Then both fields are reported by their json names", func() {
				var verr *validation.RequestValidationError
				convey.So(errors.As(err, &verr), convey.ShouldBeTrue)
				fields := verr.Fields()
				convey.So(len(fields), convey.ShouldEqual, 2)
				convey.So(fields[0].Field, convey.ShouldEqual, "skills_required")
				convey.So(fields[0].Message, convey.ShouldEqual, "skills_required is required")
				convey.So(fields[1].Field, convey.ShouldEqual, "experience_level")
			})
		})

		convey.Convey("When the budget type is unknown", func() {
			job.Budget.Type = "weekly"
			err := validation.ValidateStruct(&job)

			convey.Convey("Then the nested path and allowed values are named", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldEqual, "budget.type must be one of: hourly fixed")
			})
		})
	})

	convey.Convey("Given a freelancer with a negative rate", t, func() {
		f := model.Freelancer{ID: "F1", HourlyRate: -1, Experience: model.Junior}
		err := validation.ValidateStruct(&f)
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldEqual, "hourly_rate must be greater than 0")
	})
}
