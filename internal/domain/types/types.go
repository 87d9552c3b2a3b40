// Package types contains the derived, read-only views shared by the
// aggregation engine and the service layer.
package types

import "github.com/okian/jury/internal/domain/model"

// RankedProject is one row of a ranking.
type RankedProject struct {
	Rank            int         `json:"rank"`
	ProjectID       string      `json:"projectId"`
	Name            string      `json:"name"`
	TeamName        string      `json:"teamName"`
	Track           model.Track `json:"track"`
	Average         float64     `json:"averageScore"`
	EvaluationCount int         `json:"evaluationCount"`
}

// TrackStats summarises one track.
type TrackStats struct {
	Projects     int     `json:"projects"`
	Evaluations  int     `json:"evaluations"`
	MeanScore    float64 `json:"meanScore"`
	HasMeanScore bool    `json:"hasMeanScore"`
}

// Dashboard holds whole-event totals. An evaluation is one judge's weighted
// mean for one project.
type Dashboard struct {
	TotalProjects    int                         `json:"totalProjects"`
	TotalJudges      int                         `json:"totalJudges"`
	TotalCriteria    int                         `json:"totalCriteria"`
	TotalScores      int                         `json:"totalScores"`
	TotalEvaluations int                         `json:"totalEvaluations"`
	MeanScore        float64                     `json:"meanScore"`
	HasMeanScore     bool                        `json:"hasMeanScore"`
	StatusCounts     map[model.ProjectStatus]int `json:"statusCounts"`
	Tracks           map[model.Track]TrackStats  `json:"tracks"`
}

// JudgeProgress reports how far a judge is through their assigned projects.
// A project is started once the judge has scored any criterion on it and
// completed once every applicable criterion is scored.
type JudgeProgress struct {
	JudgeID   string `json:"judgeId"`
	Assigned  int    `json:"assigned"`
	Started   int    `json:"started"`
	Completed int    `json:"completed"`
}
