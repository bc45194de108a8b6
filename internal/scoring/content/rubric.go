package content

import (
	"fmt"
	"math"
	"sort"

	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Criterion is a single rubric line: its weight in the overall grade and the
// maximum score it can award.
type Criterion struct {
	Weight   float64 `json:"weight"`
	MaxScore float64 `json:"max_score"`
}

// Rubric maps criterion names to their grading parameters.
type Rubric map[string]Criterion

// DefaultRubric is the built-in presentation rubric.
func DefaultRubric() Rubric {
	return Rubric{
		"contenido":    {Weight: 0.3, MaxScore: 10},
		"organizacion": {Weight: 0.25, MaxScore: 10},
		"claridad":     {Weight: 0.25, MaxScore: 10},
		"engagement":   {Weight: 0.2, MaxScore: 10},
	}
}

// CriterionResult is the grade for one rubric criterion.
type CriterionResult struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

// RubricEvaluation is the full rubric grade for a content analysis.
type RubricEvaluation struct {
	OverallScore     float64                    `json:"overall_score"`
	MaxPossibleScore float64                    `json:"max_possible_score"`
	Percentage       float64                    `json:"percentage"`
	Criteria         map[string]CriterionResult `json:"criteria_evaluation"`
	Recommendations  []string                   `json:"recommendations"`
}

// EvaluateRubric grades a content analysis against a rubric. A nil rubric
// falls back to DefaultRubric.
func EvaluateRubric(a Analysis, rubric Rubric) RubricEvaluation {
	if rubric == nil {
		rubric = DefaultRubric()
	}

	criteria := make(map[string]CriterionResult, len(rubric))
	total, maxPossible := 0.0, 0.0
	for name, c := range rubric {
		result := gradeCriterion(name, c, a)
		criteria[name] = result
		total += result.Score
		maxPossible += result.MaxScore
	}

	percentage := 0.0
	if maxPossible > 0 {
		percentage = total / maxPossible * 100
	}

	return RubricEvaluation{
		OverallScore:     scoring.Round1(total),
		MaxPossibleScore: maxPossible,
		Percentage:       scoring.Round1(percentage),
		Criteria:         criteria,
		Recommendations:  rubricRecommendations(criteria),
	}
}

func gradeCriterion(name string, c Criterion, a Analysis) CriterionResult {
	var score float64
	switch name {
	case "contenido", "content":
		score = a.ContentScore
	case "organizacion", "organization", "estructura":
		score = a.Structure.Score
	case "claridad", "clarity", "legibilidad":
		score = a.Readability.Score
	case "engagement", "participacion":
		score = a.Flow.Score
	default:
		score = a.ContentScore
	}
	score = math.Min(score, c.MaxScore)

	percentage := 0.0
	if c.MaxScore > 0 {
		percentage = scoring.Round1(score / c.MaxScore * 100)
	}
	return CriterionResult{Score: score, MaxScore: c.MaxScore, Percentage: percentage}
}

func rubricRecommendations(criteria map[string]CriterionResult) []string {
	names := make([]string, 0, len(criteria))
	for name := range criteria {
		names = append(names, name)
	}
	sort.Strings(names)

	var recs []string
	for _, name := range names {
		switch result := criteria[name]; {
		case result.Percentage < 70:
			recs = append(recs, fmt.Sprintf("Mejora necesaria en %s: %.1f%%", name, result.Percentage))
		case result.Percentage < 85:
			recs = append(recs, fmt.Sprintf("Buen trabajo en %s, pero aún hay espacio para mejora", name))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "¡Excelente trabajo! Cumples con todos los criterios de la rúbrica.")
	}
	return recs
}
