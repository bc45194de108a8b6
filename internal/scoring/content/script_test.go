package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptAdherenceIdenticalTexts(t *testing.T) {
	text := "Hoy presento los resultados del proyecto y sus conclusiones principales."
	assert.Equal(t, 10.0, scriptAdherence(text, text))
	assert.Equal(t, 1.0, Similarity(text, text))
}

func TestScriptAdherenceDisjointTexts(t *testing.T) {
	transcript := "Hablemos de cocina mediterránea y recetas caseras."
	script := "Informe trimestral sobre ventas regionales del sector."

	adherence := scriptAdherence(transcript, script)
	assert.Less(t, adherence, 6.0)
	assert.Equal(t, 0.0, Similarity(transcript, script))
}

func TestScriptAdherenceEmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, scriptAdherence("", "un guión"))
	assert.Equal(t, 0.0, scriptAdherence("una charla", ""))
	assert.Equal(t, 0.0, Similarity("", "algo"))
}

func TestMessageClarityIdealPacing(t *testing.T) {
	// One sentence of exactly fifteen words with a perfect coherence input.
	sentence := strings.Repeat("palabra ", 14) + "final."
	assert.Equal(t, 10.0, messageClarity(sentence, 10))
	assert.Equal(t, 0.0, messageClarity("", 10))
}

func TestAnalyzeWithScript(t *testing.T) {
	transcript := "Hola, hoy quiero hablar sobre el proyecto. El objetivo es mostrar resultados. En resumen, el proyecto funcionó."
	script := "Hola, hoy voy a hablar sobre el proyecto. El objetivo es mostrar los resultados. En resumen, el proyecto funcionó bien."

	sa := AnalyzeWithScript(transcript, script, "es")

	assert.Greater(t, sa.ScriptAdherence, 6.0)
	assert.Greater(t, sa.SimilarityRatio, 0.5)
	assert.Equal(t, 17, sa.TranscribedLength)
	assert.Equal(t, 20, sa.ScriptLength)
	require.Len(t, sa.Feedback, 3)

	expected := sa.ContentScore*0.4 + sa.ScriptAdherence*0.3 + sa.MessageClarity*0.3
	assert.InDelta(t, expected, sa.Score, 0.05)
}

func TestScoreWithoutTranscript(t *testing.T) {
	sub := Score("   ", "un guión", "es")

	assert.Equal(t, 0.0, sub.Value)
	require.Len(t, sub.Feedback, 1)
	assert.Equal(t, "Error en análisis de contenido: no hay transcripción disponible.", sub.Feedback[0])
}

func TestScoreWithoutScriptGradesContentOnly(t *testing.T) {
	sub := Score(structuredSpeech, "", "es")
	assert.Equal(t, Analyze(structuredSpeech, "es").ContentScore, sub.Value)
	assert.NotContains(t, sub.Components, "script_adherence")
}

func TestScoreWithScriptComponents(t *testing.T) {
	sub := Score(structuredSpeech, structuredSpeech, "es")

	assert.Contains(t, sub.Components, "script_adherence")
	assert.Equal(t, 10.0, sub.Components["script_adherence"])
	assert.Equal(t, 1.0, sub.Components["similarity_ratio"])
}
