package seeddata_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/adapters/storage"
	service "github.com/okian/jury/internal/app"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/types"
	"github.com/okian/jury/internal/seeddata"
	"github.com/okian/jury/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func startService(ctx context.Context) *service.Service {
	svc := service.New(
		service.WithBackend(storage.NewMemoryBackend()),
		service.WithLogger(logger.Nop()),
	)
	So(svc.Start(ctx), ShouldBeNil)
	return svc
}

// skewedTarget reports a ranking whose leader has the wrong average.
type skewedTarget struct {
	*service.Service
}

func (s skewedTarget) Rankings(ctx context.Context) ([]types.RankedProject, error) {
	ranked, err := s.Service.Rankings(ctx)
	if err == nil && len(ranked) > 0 {
		ranked[0].Average += 0.5
	}
	return ranked, err
}

func TestRun(t *testing.T) {
	Convey("Given an empty service", t, func() {
		ctx := context.Background()
		svc := startService(ctx)
		defer svc.Stop()
		out := filepath.Join(t.TempDir(), "export", "snapshot.json")

		Convey("When seeding it", func() {
			stats, err := seeddata.Run(ctx, svc, &seeddata.Config{
				Projects:   24,
				Judges:     8,
				Criteria:   7,
				Coverage:   1,
				Workers:    4,
				Seed:       11,
				OutputFile: out,
			}, nil)

			Convey("Then every planned record should be written and verified", func() {
				So(err, ShouldBeNil)
				So(stats.ProjectsCreated, ShouldEqual, 24)
				So(stats.JudgesCreated, ShouldEqual, 8)
				So(stats.CriteriaCreated, ShouldEqual, 7)
				So(stats.ScoresSubmitted, ShouldEqual, stats.ScoresPlanned)
				So(stats.ScoresFailed, ShouldEqual, 0)
				So(stats.RankedProjects, ShouldBeGreaterThan, 0)

				data, err := svc.GetAllData(ctx)
				So(err, ShouldBeNil)
				So(data.Scores, ShouldHaveLength, stats.ScoresPlanned)
			})

			Convey("And the exported snapshot should decode to the same data", func() {
				So(err, ShouldBeNil)
				raw, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				snap, err := storage.Decode(raw)
				So(err, ShouldBeNil)
				So(snap.Projects, ShouldHaveLength, 24)
				So(snap.Scores, ShouldHaveLength, stats.ScoresPlanned)
			})

			Convey("And seeding again should refuse the populated store", func() {
				_, err := seeddata.Run(ctx, svc, &seeddata.Config{Seed: 11}, nil)
				So(errors.Is(err, seeddata.ErrNotEmpty), ShouldBeTrue)
			})
		})
	})

	Convey("Given a target whose ranking disagrees with the scores", t, func() {
		ctx := context.Background()
		svc := startService(ctx)
		defer svc.Stop()

		Convey("When seeding it", func() {
			_, err := seeddata.Run(ctx, skewedTarget{svc}, &seeddata.Config{
				Projects: 12, Judges: 6, Coverage: 1, Seed: 3,
			}, nil)

			Convey("Then verification should fail", func() {
				So(errors.Is(err, seeddata.ErrVerification), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service that already holds a project", t, func() {
		ctx := context.Background()
		svc := startService(ctx)
		defer svc.Stop()
		_, err := svc.CreateProject(ctx, repository.ProjectInput{Name: "Existing", TeamName: "Old", Track: model.TrackWeb3})
		So(err, ShouldBeNil)

		Convey("When seeding it", func() {
			_, err := seeddata.Run(ctx, svc, &seeddata.Config{}, nil)

			Convey("Then it should be refused", func() {
				So(errors.Is(err, seeddata.ErrNotEmpty), ShouldBeTrue)
			})
		})
	})
}
