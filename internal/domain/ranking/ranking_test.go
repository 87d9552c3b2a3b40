package ranking

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jury/internal/domain/model"
)

func project(id, name string, track model.Track) model.Project {
	return model.Project{ID: id, Name: name, TeamName: "team " + name, Track: track, Status: model.StatusSubmitted}
}

func rate(project, judge, criterion string, v float64) model.Score {
	return model.Score{ID: model.ScoreID(project, judge, criterion), ProjectID: project, JudgeID: judge, CriterionID: criterion, Value: v}
}

func fixture() model.Snapshot {
	snap := model.EmptySnapshot()
	snap.Projects = []model.Project{
		project("p1", "Alpha", model.TrackFintech),
		project("p2", "Bravo", model.TrackFintech),
		project("p3", "Charlie", model.TrackWeb3),
		project("p4", "Delta", model.TrackWeb3),
		project("p5", "Echo", model.TrackAIML),
	}
	snap.Criteria = []model.Criterion{{ID: "c", Label: "Overall", Weight: 1, Tracks: []model.Track{model.TrackAll}}}
	snap.Scores = []model.Score{
		rate("p1", "j1", "c", 8),
		rate("p2", "j1", "c", 9),
		rate("p2", "j2", "c", 7), // p2 averages 8 with two evaluations
		rate("p3", "j3", "c", 9),
		rate("p4", "j3", "c", 8),
	}
	return snap
}

func TestOverall(t *testing.T) {
	Convey("Given projects with and without evaluations", t, func() {
		snap := fixture()

		Convey("When the overall ranking is computed", func() {
			rows := Overall(snap)

			Convey("Then unevaluated projects should be excluded", func() {
				So(rows, ShouldHaveLength, 4)
				for _, r := range rows {
					So(r.ProjectID, ShouldNotEqual, "p5")
				}
			})

			Convey("Then equal averages should be ordered by evaluation count", func() {
				So(rows[0].ProjectID, ShouldEqual, "p3")
				So(rows[1].ProjectID, ShouldEqual, "p2")
				So(rows[1].EvaluationCount, ShouldEqual, 2)
				So(rows[2].ProjectID, ShouldEqual, "p1")
				So(rows[3].ProjectID, ShouldEqual, "p4")
			})

			Convey("Then ranks should be dense over (average, count)", func() {
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[2].Rank, ShouldEqual, 3)
				So(rows[3].Rank, ShouldEqual, 3)
			})
		})

		Convey("When two projects tie exactly", func() {
			rows := Overall(snap)

			Convey("Then they should be ordered by name and share a rank", func() {
				So(rows[2].Name, ShouldEqual, "Alpha")
				So(rows[3].Name, ShouldEqual, "Delta")
				So(rows[2].Rank, ShouldEqual, rows[3].Rank)
			})
		})

		Convey("When averages differ only by floating point noise", func() {
			snap.Scores = []model.Score{
				rate("p1", "j1", "c", 0.1+0.2),
				rate("p2", "j1", "c", 0.3),
			}
			rows := Overall(snap)

			Convey("Then they should share a rank", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Rank, ShouldEqual, rows[1].Rank)
			})
		})

		Convey("When nothing has been scored", func() {
			snap.Scores = nil

			Convey("Then the ranking should be empty", func() {
				So(Overall(snap), ShouldBeEmpty)
			})
		})
	})
}

func TestTrackRankings(t *testing.T) {
	Convey("Given projects across tracks", t, func() {
		snap := fixture()

		Convey("When ranking a single track", func() {
			rows := ForTrack(snap, model.TrackWeb3)

			Convey("Then only that track should be ranked from 1", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].ProjectID, ShouldEqual, "p3")
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When ranking every track", func() {
			all := ByTrack(snap)

			Convey("Then each known track should be present and ranked independently", func() {
				So(all, ShouldHaveLength, len(model.Tracks()))
				So(all[model.TrackFintech], ShouldHaveLength, 2)
				So(all[model.TrackFintech][0].ProjectID, ShouldEqual, "p2")
				So(all[model.TrackAIML], ShouldBeEmpty)
				So(all[model.TrackHealthtech], ShouldBeEmpty)
			})
		})
	})
}

func TestDashboard(t *testing.T) {
	Convey("Given a populated snapshot", t, func() {
		snap := fixture()
		snap.Judges = []model.Judge{{ID: "j1"}, {ID: "j2"}, {ID: "j3"}}
		snap.Projects[4].Status = model.StatusDisqualified

		Convey("When the dashboard is computed", func() {
			d := Dashboard(snap)

			Convey("Then totals should count every collection", func() {
				So(d.TotalProjects, ShouldEqual, 5)
				So(d.TotalJudges, ShouldEqual, 3)
				So(d.TotalCriteria, ShouldEqual, 1)
				So(d.TotalScores, ShouldEqual, 5)
				So(d.TotalEvaluations, ShouldEqual, 5)
			})

			Convey("Then the mean should be over evaluations", func() {
				So(d.HasMeanScore, ShouldBeTrue)
				So(d.MeanScore, ShouldAlmostEqual, (8+9+7+9+8)/5.0)
			})

			Convey("Then statuses should be counted, including empty ones", func() {
				So(d.StatusCounts[model.StatusSubmitted], ShouldEqual, 4)
				So(d.StatusCounts[model.StatusDisqualified], ShouldEqual, 1)
				So(d.StatusCounts[model.StatusJudged], ShouldEqual, 0)
				So(d.StatusCounts, ShouldHaveLength, len(model.Statuses()))
			})

			Convey("Then each track should report its own mean", func() {
				So(d.Tracks[model.TrackFintech].Projects, ShouldEqual, 2)
				So(d.Tracks[model.TrackFintech].Evaluations, ShouldEqual, 3)
				So(d.Tracks[model.TrackFintech].MeanScore, ShouldAlmostEqual, 8.0)
				So(d.Tracks[model.TrackAIML].Projects, ShouldEqual, 1)
				So(d.Tracks[model.TrackAIML].HasMeanScore, ShouldBeFalse)
				So(d.Tracks[model.TrackSocialImpact].Projects, ShouldEqual, 0)
			})
		})

		Convey("When the snapshot is empty", func() {
			d := Dashboard(model.EmptySnapshot())

			Convey("Then there should be no mean score", func() {
				So(d.HasMeanScore, ShouldBeFalse)
				So(d.TotalEvaluations, ShouldEqual, 0)
				So(d.Tracks, ShouldHaveLength, len(model.Tracks()))
			})
		})
	})
}
