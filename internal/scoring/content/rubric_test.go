package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perfectAnalysis() Analysis {
	return Analysis{
		ContentScore: 10,
		Structure:    StructureAnalysis{Score: 10},
		Readability:  ReadabilityAnalysis{Score: 10},
		Flow:         FlowAnalysis{Score: 10},
	}
}

func TestEvaluateRubricPerfectScores(t *testing.T) {
	eval := EvaluateRubric(perfectAnalysis(), nil)

	assert.Equal(t, 40.0, eval.OverallScore)
	assert.Equal(t, 40.0, eval.MaxPossibleScore)
	assert.Equal(t, 100.0, eval.Percentage)
	require.Len(t, eval.Recommendations, 1)
	assert.Equal(t, "¡Excelente trabajo! Cumples con todos los criterios de la rúbrica.", eval.Recommendations[0])
}

func TestEvaluateRubricFlagsWeakCriteria(t *testing.T) {
	a := perfectAnalysis()
	a.Readability.Score = 5

	eval := EvaluateRubric(a, nil)

	require.Len(t, eval.Recommendations, 1)
	assert.Equal(t, "Mejora necesaria en claridad: 50.0%", eval.Recommendations[0])
}

func TestEvaluateRubricMidBandRecommendation(t *testing.T) {
	a := perfectAnalysis()
	a.Flow.Score = 8

	eval := EvaluateRubric(a, nil)

	require.Len(t, eval.Recommendations, 1)
	assert.Equal(t, "Buen trabajo en engagement, pero aún hay espacio para mejora", eval.Recommendations[0])
}

func TestEvaluateRubricCapsAtMaxScore(t *testing.T) {
	rubric := Rubric{"contenido": {Weight: 1, MaxScore: 5}}

	eval := EvaluateRubric(perfectAnalysis(), rubric)

	assert.Equal(t, 5.0, eval.Criteria["contenido"].Score)
	assert.Equal(t, 100.0, eval.Criteria["contenido"].Percentage)
}

func TestEvaluateRubricUnknownCriterionUsesContentScore(t *testing.T) {
	rubric := Rubric{"creatividad": {Weight: 1, MaxScore: 10}}
	a := perfectAnalysis()
	a.ContentScore = 7.5

	eval := EvaluateRubric(a, rubric)

	assert.Equal(t, 7.5, eval.Criteria["creatividad"].Score)
	assert.Equal(t, 75.0, eval.Criteria["creatividad"].Percentage)
}
