package seeddata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/domain/model"
)

// ScorePlan is one planned rating, addressed by plan indices.
type ScorePlan struct {
	Project   int
	Judge     int
	Criterion int
	Value     float64
}

// Plan is a complete generated event.
type Plan struct {
	Projects []repository.ProjectInput
	Judges   []repository.JudgeInput
	Criteria []repository.CriterionInput
	Scores   []ScorePlan
}

// Constants for project quality ranges.
const (
	avgQualityMin     = 4.0
	avgQualityRange   = 3.0
	highQualityMin    = 7.0
	highQualityRange  = 2.0
	lowQualityMin     = 1.0
	lowQualityRange   = 3.0
	eliteQualityMin   = 9.0
	eliteQualityRange = 1.0
	wideQualityMin    = 1.0
	wideQualityRange  = 9.0
	ratingNoise       = 1.5
	partialShare      = 0.15
	linkShare         = 0.5
)

// Constants for quality bucket cases.
const (
	caseAverage = iota
	caseHigh
	caseLow
	caseElite
	caseWide
	qualityCases
)

var (
	adjectives = []string{"Bright", "Quiet", "Rapid", "Open", "Silver", "Green", "Clear", "Bold", "Lucid", "Nimble", "Steady", "Vivid"}
	nouns      = []string{"Ledger", "Pulse", "Harbor", "Beacon", "Canopy", "Relay", "Atlas", "Compass", "Lattice", "Orbit", "Signal", "Meadow"}
	teams      = []string{"Night Owls", "Byte Club", "Null Pointers", "Green Thumbs", "Hash Browns", "Stack Smashers", "Hot Fixes", "Rubber Ducks"}
	firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Frances", "Ken", "Radia", "Leslie"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson", "Perlman", "Lamport"}
)

// catalog lists the criteria in the order they are taken.
var catalog = []repository.CriterionInput{
	{Label: "Innovation", Description: "Novelty of the idea", Weight: 2},
	{Label: "Technical Execution", Description: "Quality of the build", Weight: 2},
	{Label: "Impact", Description: "Value to the intended users", Weight: 1.5},
	{Label: "Presentation", Description: "Clarity of the demo", Weight: 1},
	{Label: "Model Quality", Description: "Evaluation of the ML approach", Weight: 1, Tracks: []model.Track{model.TrackAIML}},
	{Label: "Regulatory Readiness", Description: "Compliance posture", Weight: 1, Tracks: []model.Track{model.TrackFintech}},
	{Label: "Clinical Safety", Description: "Patient safety considerations", Weight: 1, Tracks: []model.Track{model.TrackHealthtech}},
	{Label: "Carbon Impact", Description: "Measured emissions reduction", Weight: 1, Tracks: []model.Track{model.TrackSustainability}},
	{Label: "Decentralization", Description: "Trust assumptions", Weight: 1, Tracks: []model.Track{model.TrackWeb3}},
	{Label: "Community Reach", Description: "People served", Weight: 1, Tracks: []model.Track{model.TrackSocialImpact}},
}

// Generate builds a plan from cfg. Equal configs give equal plans.
func Generate(cfg Config) Plan {
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	tracks := model.Tracks()

	plan := Plan{
		Projects: make([]repository.ProjectInput, cfg.Projects),
		Judges:   make([]repository.JudgeInput, cfg.Judges),
		Criteria: make([]repository.CriterionInput, 0, min(cfg.Criteria, len(catalog))),
	}

	quality := make([]float64, cfg.Projects)
	for i := range plan.Projects {
		plan.Projects[i] = generateProject(r, i, tracks[i%len(tracks)])
		quality[i] = generateQuality(r)
	}
	for i := range plan.Judges {
		plan.Judges[i] = generateJudge(r, i, tracks)
	}
	for i := 0; i < cap(plan.Criteria); i++ {
		c := catalog[i]
		c.Tracks = append([]model.Track(nil), c.Tracks...)
		plan.Criteria = append(plan.Criteria, c)
	}

	for j, judge := range plan.Judges {
		for p, project := range plan.Projects {
			if !hasTrack(judge.Tracks, project.Track) || r.Float64() >= cfg.Coverage {
				continue
			}
			applicable := applicableCriteria(plan.Criteria, project.Track)
			if len(applicable) > 1 && r.Float64() < partialShare {
				applicable = applicable[:len(applicable)-1]
			}
			for _, c := range applicable {
				plan.Scores = append(plan.Scores, ScorePlan{
					Project:   p,
					Judge:     j,
					Criterion: c,
					Value:     rating(r, quality[p]),
				})
			}
		}
	}
	return plan
}

// generateProject creates a project with a unique name.
func generateProject(r *rand.Rand, index int, track model.Track) repository.ProjectInput {
	name := adjectives[index%len(adjectives)] + " " + nouns[(index/len(adjectives))%len(nouns)]
	if index >= len(adjectives)*len(nouns) {
		name = fmt.Sprintf("%s %d", name, index/(len(adjectives)*len(nouns))+1)
	}
	p := repository.ProjectInput{
		Name:        name,
		TeamName:    teams[r.IntN(len(teams))],
		Track:       track,
		Description: fmt.Sprintf("%s entry in the %s track", name, track),
		TRL:         model.MinTRL + r.IntN(model.MaxTRL-model.MinTRL+1),
	}
	if r.Float64() < linkShare {
		p.Links = []string{"https://example.com/projects/" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))}
	}
	return p
}

// generateJudge creates a judge authorised for one or two tracks. The first
// track rotates so every track gets a judge once there are enough of them.
func generateJudge(r *rand.Rand, index int, tracks []model.Track) repository.JudgeInput {
	first := firstNames[index%len(firstNames)]
	last := lastNames[(index/len(firstNames)+index)%len(lastNames)]
	assigned := []model.Track{tracks[index%len(tracks)]}
	if r.IntN(2) == 1 {
		extra := tracks[r.IntN(len(tracks))]
		if extra != assigned[0] {
			assigned = append(assigned, extra)
		}
	}
	return repository.JudgeInput{
		Name:   first + " " + last,
		Email:  fmt.Sprintf("%s.%s.%d@jury.example", strings.ToLower(first), strings.ToLower(last), index+1),
		Tracks: assigned,
	}
}

// generateQuality draws a latent project quality with a varied distribution.
func generateQuality(r *rand.Rand) float64 {
	switch r.IntN(qualityCases) {
	case caseAverage:
		return avgQualityMin + r.Float64()*avgQualityRange
	case caseHigh:
		return highQualityMin + r.Float64()*highQualityRange
	case caseLow:
		return lowQualityMin + r.Float64()*lowQualityRange
	case caseElite:
		return eliteQualityMin + r.Float64()*eliteQualityRange
	default:
		return wideQualityMin + r.Float64()*wideQualityRange
	}
}

// rating turns a latent quality into a whole-number rating in range.
func rating(r *rand.Rand, quality float64) float64 {
	v := math.Round(quality + (r.Float64()*2-1)*ratingNoise)
	return math.Max(model.MinRating, math.Min(model.MaxRating, v))
}

func applicableCriteria(criteria []repository.CriterionInput, track model.Track) []int {
	var out []int
	for i, c := range criteria {
		if len(c.Tracks) == 0 || hasTrack(c.Tracks, track) || hasTrack(c.Tracks, model.TrackAll) {
			out = append(out, i)
		}
	}
	return out
}

func hasTrack(tracks []model.Track, t model.Track) bool {
	for _, x := range tracks {
		if x == t {
			return true
		}
	}
	return false
}
