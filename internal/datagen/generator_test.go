package datagen_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/peerhire/internal/adapters/corpus"
	"github.com/okian/peerhire/internal/datagen"
	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/internal/validation"
	"github.com/smartystreets/goconvey/convey"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	convey.Convey("Given the default generator", t, func() {
		c := datagen.New(datagen.WithClock(fixedClock)).Generate()

		convey.Convey("Then it produces the default sizes with sequential ids", func() {
			convey.So(len(c.Freelancers), convey.ShouldEqual, datagen.DefaultFreelancers)
			convey.So(len(c.Jobs), convey.ShouldEqual, datagen.DefaultJobs)
			convey.So(c.Freelancers[0].ID, convey.ShouldEqual, "F0001")
			convey.So(c.Freelancers[99].ID, convey.ShouldEqual, "F0100")
			convey.So(c.Jobs[49].ID, convey.ShouldEqual, "J0050")
		})

		convey.Convey("Then every record passes validation", func() {
			for i := range c.Freelancers {
				convey.So(validation.ValidateStruct(&c.Freelancers[i]), convey.ShouldBeNil)
				convey.So(c.Freelancers[i].CompletedProjects, convey.ShouldEqual, len(c.Freelancers[i].PastProjects))
			}
			for i := range c.Jobs {
				convey.So(validation.ValidateStruct(&c.Jobs[i]), convey.ShouldBeNil)
				convey.So(c.Jobs[i].Budget.Validate(), convey.ShouldBeNil)
			}
		})

		convey.Convey("Then the same seed reproduces the corpus", func() {
			again := datagen.New(datagen.WithClock(fixedClock)).Generate()
			convey.So(again, convey.ShouldResemble, c)
		})

		convey.Convey("Then a different seed changes it", func() {
			other := datagen.New(datagen.WithClock(fixedClock), datagen.WithSeed(7)).Generate()
			convey.So(other, convey.ShouldNotResemble, c)
		})

		convey.Convey("Then client histories overlap", func() {
			snap, err := recommend.BuildSnapshot(c)
			convey.So(err, convey.ShouldBeNil)
			convey.So(snap.Ratings.NumClients(), convey.ShouldBeLessThanOrEqualTo, datagen.DefaultClients)
			convey.So(snap.Ratings.NumClients(), convey.ShouldBeGreaterThan, 1)
		})
	})
}

func TestSave(t *testing.T) {
	convey.Convey("Given a small generator and an empty directory", t, func() {
		dir := t.TempDir() + "/data"
		g := datagen.New(datagen.WithClock(fixedClock), datagen.WithSize(10, 4))

		written, err := g.Save(dir)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the loader reads back the same records", func() {
			loaded, err := corpus.NewFileLoader(dir).Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(loaded.Freelancers), convey.ShouldEqual, 10)
			convey.So(len(loaded.Jobs), convey.ShouldEqual, 4)
			convey.So(loaded.Freelancers[3].ID, convey.ShouldEqual, written.Freelancers[3].ID)
			convey.So(loaded.Freelancers[3].Experience, convey.ShouldEqual, written.Freelancers[3].Experience)
			convey.So(loaded.Jobs[2].Budget, convey.ShouldResemble, written.Jobs[2].Budget)
			convey.So(loaded.Jobs[2].CreatedAt.Equal(written.Jobs[2].CreatedAt), convey.ShouldBeTrue)
		})

		convey.Convey("Then only the final files remain in the directory", func() {
			entries, err := os.ReadDir(dir)
			convey.So(err, convey.ShouldBeNil)
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			convey.So(names, convey.ShouldResemble, []string{corpus.FreelancersFile, corpus.JobsFile})

			info, err := os.Stat(filepath.Join(dir, corpus.JobsFile))
			convey.So(err, convey.ShouldBeNil)
			convey.So(info.Mode().Perm(), convey.ShouldEqual, os.FileMode(0o644))
		})

		convey.Convey("When saving again over existing files", func() {
			again, err := datagen.New(datagen.WithClock(fixedClock), datagen.WithSize(3, 2)).Save(dir)
			convey.So(err, convey.ShouldBeNil)

			loaded, err := corpus.NewFileLoader(dir).Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(loaded.Freelancers), convey.ShouldEqual, len(again.Freelancers))
			convey.So(len(loaded.Jobs), convey.ShouldEqual, 2)
		})
	})
}
