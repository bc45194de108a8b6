package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const structuredSpeech = `Hola, mi nombre es Ana y hoy quiero hablar sobre el proyecto. El objetivo de esta presentación es mostrar los resultados del equipo.

Además, veremos los resultados en detalle. Sin embargo, el proyecto tuvo retos importantes. También el equipo aprendió mucho durante el proceso.

En conclusión, el proyecto cumplió su meta y los resultados del equipo fueron excelentes.`

func TestAnalyzeStructuredSpeech(t *testing.T) {
	a := Analyze(structuredSpeech, "es")

	assert.True(t, a.Structure.HasIntroduction)
	assert.True(t, a.Structure.HasObjectives)
	assert.True(t, a.Structure.HasConclusion)
	assert.GreaterOrEqual(t, a.Structure.TransitionCount, 3)
	assert.Equal(t, 3, a.Structure.ParagraphCount)
	assert.Equal(t, 10.0, a.Structure.Score)

	assert.Greater(t, a.ContentScore, 0.0)
	assert.LessOrEqual(t, a.ContentScore, 10.0)
	assert.NotEmpty(t, a.Feedback)
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := Analyze("", "es")

	assert.Equal(t, 0.0, a.Structure.Score)
	assert.Equal(t, "unknown", a.Readability.Level)
	// A text too short to connect still gets the neutral coherence midpoint.
	assert.Equal(t, 5.0, a.Coherence.Score)
	assert.Equal(t, 0.0, a.Flow.Score)
	assert.Equal(t, 1.3, a.ContentScore)
}

func TestAnalyzeUnknownLanguageFallsBackToSpanish(t *testing.T) {
	a := Analyze("Además del tema principal, también veremos ejemplos. Sin embargo, hay límites.", "fr")
	assert.GreaterOrEqual(t, a.Structure.TransitionCount, 3)
}

func TestCountSyllables(t *testing.T) {
	assert.Equal(t, 4, countSyllables("presentación"))
	assert.Equal(t, 1, countSyllables("sol"))
	assert.Equal(t, 2, countSyllables("hola"))
	assert.Equal(t, 1, countSyllables("xyz")) // floor of one
}

func TestReadabilityShortSimpleSentence(t *testing.T) {
	a := Analyze("El sol sale hoy", "es")

	// ASL 3, ASW 4/3: Flesch 90.99.
	assert.Equal(t, 9.1, a.Readability.Score)
	assert.Equal(t, "very_easy", a.Readability.Level)
}

func TestKeyTermCount(t *testing.T) {
	words := []string{"proyecto", "proyecto", "resultados", "resultados", "equipo", "equipo", "sol"}
	assert.Equal(t, 3, keyTermCount(words))
	assert.Equal(t, 0, keyTermCount([]string{"uno", "dos", "tres"}))
}

func TestAnalyzeFlowDevices(t *testing.T) {
	text := "¿Se han preguntado ustedes por qué? ¿Y qué sigue? Por ejemplo, tal como vimos, " +
		"la parte importante es este punto clave."

	a := Analyze(text, "es")

	assert.Equal(t, 2, a.Flow.QuestionCount)
	assert.GreaterOrEqual(t, a.Flow.ExampleCount, 2)
	assert.GreaterOrEqual(t, a.Flow.EmphasisCount, 2)
	assert.GreaterOrEqual(t, a.Flow.EngagementCount, 1)
	assert.GreaterOrEqual(t, a.Flow.SectionCount, 2)
	assert.Equal(t, 10.0, a.Flow.Score)
}

func TestDetailedMetrics(t *testing.T) {
	a := Analyze("La metodología científica requiere observación detallada. La metodología guía todo.", "es")

	assert.Greater(t, a.Metrics.VocabularyDiversity, 0.0)
	assert.LessOrEqual(t, a.Metrics.VocabularyDiversity, 1.0)
	// metodología, científica, requiere, observación, detallada
	assert.Equal(t, 5, a.Metrics.TechnicalTerms)
	assert.Greater(t, a.Metrics.EstimatedMinutes, 0.0)
}

func TestScoreTextComponents(t *testing.T) {
	sub := ScoreText(structuredSpeech, "es")

	assert.Equal(t, sub.Value, Analyze(structuredSpeech, "es").ContentScore)
	assert.Contains(t, sub.Components, "structure_score")
	assert.Contains(t, sub.Components, "readability_score")
	assert.Contains(t, sub.Components, "coherence_score")
	assert.Contains(t, sub.Components, "flow_score")
}
