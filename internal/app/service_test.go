package service_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/okian/peerhire/internal/adapters/repository"
	service "github.com/okian/peerhire/internal/app"
	"github.com/okian/peerhire/internal/domain/hybrid"
	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/internal/domain/scoring"
	"github.com/okian/peerhire/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type stubLoader struct {
	mu     sync.Mutex
	corpus recommend.Corpus
	err    error
}

func (l *stubLoader) Load(context.Context) (recommend.Corpus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.corpus, l.err
}

func (l *stubLoader) set(c recommend.Corpus, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.corpus, l.err = c, err
}

func sampleCorpus() recommend.Corpus {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := func(client string, rating float64) model.Project {
		return model.Project{ClientID: client, Rating: rating}
	}
	return recommend.Corpus{
		Freelancers: []model.Freelancer{
			{ID: "F1", Name: "Ada", Skills: []string{"python", "react"}, HourlyRate: 30, Experience: model.Senior, AvgRating: 4.5,
				PastProjects: []model.Project{p("C1", 5), p("C2", 5)}},
			{ID: "F2", Name: "Bo", Skills: []string{"react", "css"}, HourlyRate: 55, Experience: model.Expert, AvgRating: 3.0,
				PastProjects: []model.Project{p("C1", 3), p("C2", 3)}},
			{ID: "F3", Name: "Cy", Skills: []string{"python", "django"}, HourlyRate: 35, Experience: model.Mid, AvgRating: 4.0,
				PastProjects: []model.Project{p("C2", 5), p("C3", 5)}},
		},
		Jobs: []model.Job{
			{ID: "J1", ClientID: "C1", Skills: []string{"python", "react"}, Experience: model.Senior,
				Budget: model.Budget{Type: model.BudgetHourly, MinRate: 20, MaxRate: 40}, CreatedAt: t0},
		},
	}
}

func pythonJob() *model.Job {
	return &model.Job{
		Skills:     []string{"python", "react"},
		Experience: model.Senior,
		Budget:     model.Budget{Type: model.BudgetHourly, MinRate: 20, MaxRate: 40},
	}
}

func startedService(loader *stubLoader, opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithLoader(loader), service.WithEvaluationWorkers(2)}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service with a valid corpus", t, func() {
		loader := &stubLoader{corpus: sampleCorpus()}
		svc := startedService(loader)
		defer svc.Stop()

		Convey("Then it is started with snapshot version 1", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			snap, ok := stats["snapshot"].(map[string]interface{})
			So(ok, ShouldBeTrue)
			So(snap["version"], ShouldEqual, uint64(1))
			So(snap["freelancers"], ShouldEqual, 3)
		})

		Convey("And starting twice is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given a service whose first load fails", t, func() {
		svc := service.New(service.WithLoader(&stubLoader{err: errors.New("no data")}))
		err := svc.Start(context.Background())
		So(errors.Is(err, repository.ErrReloadFailed), ShouldBeTrue)
		So(svc.GetStats()["started"], ShouldEqual, false)
	})

	Convey("Given content weights that do not sum to one", t, func() {
		svc := service.New(
			service.WithLoader(&stubLoader{corpus: sampleCorpus()}),
			service.WithWeights(model.Weights{Skills: 0.9, Experience: 0.9}),
		)
		err := svc.Start(context.Background())
		So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
	})

	Convey("Given a service without a loader", t, func() {
		So(service.New().Start(context.Background()), ShouldNotBeNil)
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(&stubLoader{corpus: sampleCorpus()})

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it is marked stopped and reloads are refused", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(errors.Is(svc.Reload(context.Background(), "admin"), service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Recommend(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(&stubLoader{corpus: sampleCorpus()}, service.WithLimits(service.Limits{MaxLimit: 10}))
		defer svc.Stop()

		Convey("When recommending for a python/react job", func() {
			res, err := svc.Recommend(ctx, recommend.Request{Job: pythonJob(), Limit: 2, CFWeight: 0.3})
			So(err, ShouldBeNil)

			Convey("Then the matching freelancer ranks first", func() {
				So(len(res.Matches), ShouldEqual, 2)
				So(res.Matches[0].FreelancerID, ShouldEqual, "F1")
				So(res.SnapshotVersion, ShouldEqual, uint64(1))
			})
		})

		Convey("When the limit exceeds the configured maximum", func() {
			_, err := svc.Recommend(ctx, recommend.Request{Job: pythonJob(), Limit: 11, CFWeight: 0.3})
			So(errors.Is(err, hybrid.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("When the limits are read back", func() {
			l := svc.Limits()
			So(l.MaxLimit, ShouldEqual, 10)
			So(l.DefaultLimit, ShouldEqual, 5)
			So(l.CFWeight, ShouldEqual, hybrid.DefaultCFWeight)
		})

		Convey("When listing supported skills", func() {
			skills, err := svc.SupportedSkills(ctx)
			So(err, ShouldBeNil)
			So(skills, ShouldResemble, []string{"css", "django", "python", "react"})
		})
	})
}

func TestService_ClientRecommendations(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(&stubLoader{corpus: sampleCorpus()})
		defer svc.Stop()

		Convey("When a client with a posted job asks", func() {
			res, err := svc.ClientRecommendations(ctx, "C1", 3)
			So(err, ShouldBeNil)

			Convey("Then their latest job is used with collaborative blending", func() {
				So(res.Job.ID, ShouldEqual, "J1")
				So(res.Collaborative, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When a client known only by ratings asks", func() {
			res, err := svc.ClientRecommendations(ctx, "C3", 3)
			So(err, ShouldBeNil)
			So(res.Job.ID, ShouldEqual, "profile:C3")
		})

		Convey("When an unknown client asks", func() {
			_, err := svc.ClientRecommendations(ctx, "ghost", 3)
			So(errors.Is(err, recommend.ErrUnknownClient), ShouldBeTrue)
		})

		Convey("When asking for collaborative-only predictions", func() {
			preds, err := svc.CollaborativeRecommendations(ctx, "C3", 5)
			So(err, ShouldBeNil)

			Convey("Then only freelancers the client has not rated are returned", func() {
				for _, p := range preds {
					So(p.FreelancerID, ShouldNotEqual, "F3")
				}
			})

			_, err = svc.CollaborativeRecommendations(ctx, "ghost", 5)
			So(errors.Is(err, recommend.ErrUnknownClient), ShouldBeTrue)
		})
	})
}

func TestService_Reload(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		loader := &stubLoader{corpus: sampleCorpus()}
		svc := startedService(loader)
		defer svc.Stop()

		Convey("When the corpus grows and is reloaded", func() {
			c := sampleCorpus()
			c.Freelancers = append(c.Freelancers, model.Freelancer{ID: "F4", Skills: []string{"go"}, HourlyRate: 70, Experience: model.Junior})
			loader.set(c, nil)
			So(svc.Reload(ctx, "admin"), ShouldBeNil)

			Convey("Then the new snapshot serves requests", func() {
				skills, err := svc.SupportedSkills(ctx)
				So(err, ShouldBeNil)
				So(skills, ShouldContain, "go")
				f, ok := svc.Freelancer(ctx, "F4")
				So(ok, ShouldBeTrue)
				So(f.HourlyRate, ShouldEqual, 70)
			})
		})

		Convey("When a reload fails", func() {
			loader.set(recommend.Corpus{}, nil)
			err := svc.Reload(ctx, "admin")
			So(err, ShouldNotBeNil)

			Convey("Then the previous snapshot keeps serving and the failure is reported", func() {
				res, err := svc.Recommend(ctx, recommend.Request{Job: pythonJob(), Limit: 1, CFWeight: 0.3})
				So(err, ShouldBeNil)
				So(res.SnapshotVersion, ShouldEqual, uint64(1))
				_, failed := svc.GetStats()["lastReloadFailure"]
				So(failed, ShouldBeTrue)
			})
		})
	})
}

func TestService_Evaluate(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(&stubLoader{corpus: sampleCorpus()})
		defer svc.Stop()

		report, err := svc.Evaluate(context.Background(), 2)
		So(err, ShouldBeNil)
		So(report.Jobs, ShouldEqual, 1)
		So(report.SkillCoverage.Average, ShouldEqual, 1)
		So(report.Overall, ShouldBeBetweenOrEqual, 0, 1)

		_, err = svc.Evaluate(context.Background(), 0)
		So(errors.Is(err, hybrid.ErrInvalidLimit), ShouldBeTrue)
	})
}
