package scoring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jury/internal/domain/model"
)

func criteria(cs ...model.Criterion) map[string]model.Criterion {
	out := make(map[string]model.Criterion, len(cs))
	for _, c := range cs {
		out[c.ID] = c
	}
	return out
}

func score(project, judge, criterion string, v float64) model.Score {
	return model.Score{
		ID:          model.ScoreID(project, judge, criterion),
		ProjectID:   project,
		JudgeID:     judge,
		CriterionID: criterion,
		Value:       v,
	}
}

func TestJudgeMean(t *testing.T) {
	Convey("Given weighted criteria", t, func() {
		cs := criteria(
			model.Criterion{ID: "innovation", Weight: 1},
			model.Criterion{ID: "technical", Weight: 3},
		)

		Convey("When a judge scores both criteria", func() {
			mean, ok := JudgeMean([]model.Score{
				score("p", "j", "innovation", 8),
				score("p", "j", "technical", 4),
			}, cs)

			Convey("Then the mean should be weighted", func() {
				So(ok, ShouldBeTrue)
				So(mean, ShouldAlmostEqual, (8*1+4*3)/4.0)
			})
		})

		Convey("When a judge skips a criterion", func() {
			mean, ok := JudgeMean([]model.Score{score("p", "j", "technical", 6)}, cs)

			Convey("Then only the submitted criterion should count", func() {
				So(ok, ShouldBeTrue)
				So(mean, ShouldEqual, 6)
			})
		})

		Convey("When every score references a deleted criterion", func() {
			_, ok := JudgeMean([]model.Score{score("p", "j", "gone", 9)}, cs)

			Convey("Then there should be no mean", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestProjectResult(t *testing.T) {
	Convey("Given two judges scoring one project", t, func() {
		snap := model.EmptySnapshot()
		snap.Projects = []model.Project{{ID: "p"}, {ID: "quiet"}}
		snap.Criteria = []model.Criterion{
			{ID: "innovation", Label: "Innovation", Weight: 1},
			{ID: "technical", Label: "Technical", Weight: 1},
		}
		snap.Scores = []model.Score{
			score("p", "j", "innovation", 8),
			score("p", "j", "technical", 6),
			score("p", "k", "innovation", 10),
		}

		Convey("When the project is aggregated", func() {
			res := ProjectResult("p", snap)

			Convey("Then the average should be the mean of judge means", func() {
				So(res.HasAverage, ShouldBeTrue)
				So(res.Average, ShouldEqual, 8.5)
				So(res.EvaluationCount, ShouldEqual, 2)
				So(res.JudgeMeans["j"], ShouldEqual, 7.0)
				So(res.JudgeMeans["k"], ShouldEqual, 10.0)
			})
		})

		Convey("When a criterion is deleted", func() {
			snap.Criteria = snap.Criteria[1:]
			res := ProjectResult("p", snap)

			Convey("Then its scores should stop counting", func() {
				So(res.EvaluationCount, ShouldEqual, 1)
				So(res.Average, ShouldEqual, 6.0)
				_, hasK := res.JudgeMeans["k"]
				So(hasK, ShouldBeFalse)
			})
		})

		Convey("When a project has no scores", func() {
			res := ProjectResult("quiet", snap)

			Convey("Then its average should be absent, not zero", func() {
				So(res.HasAverage, ShouldBeFalse)
				So(res.EvaluationCount, ShouldEqual, 0)
			})
		})

		Convey("When every project is evaluated at once", func() {
			all := Evaluate(snap)

			Convey("Then the results should match per-project aggregation", func() {
				So(all, ShouldHaveLength, 2)
				So(all["p"], ShouldResemble, ProjectResult("p", snap))
				So(all["quiet"].HasAverage, ShouldBeFalse)
			})
		})
	})
}
