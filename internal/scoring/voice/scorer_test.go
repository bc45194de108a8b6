package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

func TestScorePerfectSession(t *testing.T) {
	tm := TextMetrics{WordCount: 300, SpeakingRate: 150, FillerCount: 0}
	af := AudioFeatures{ClarityScore: 10, VoiceActivityRatio: 1}

	sub := Score(tm, af)

	// 3.0 clarity + 2.5 rate + 2.5 fillers + 2.0 activity.
	assert.Equal(t, 10.0, sub.Value)
	assert.Equal(t, 150.0, sub.Components["speaking_rate"])
	assert.Equal(t, 300.0, sub.Components["word_count"])
	assert.Contains(t, sub.Feedback, "¡Excelente trabajo! Tu dicción y fluidez son muy buenas.")
}

func TestScoreFillerPenalty(t *testing.T) {
	af := AudioFeatures{ClarityScore: 10, VoiceActivityRatio: 1}

	// Each filler costs half a point until the component bottoms out at 0.
	assert.Equal(t, 9.0, Score(TextMetrics{SpeakingRate: 150, FillerCount: 2}, af).Value)
	assert.Equal(t, 7.5, Score(TextMetrics{SpeakingRate: 150, FillerCount: 5}, af).Value)
	assert.Equal(t, 7.5, Score(TextMetrics{SpeakingRate: 150, FillerCount: 40}, af).Value)
}

func TestScoreRatePenalty(t *testing.T) {
	af := AudioFeatures{ClarityScore: 10, VoiceActivityRatio: 1}

	// 50 wpm off ideal costs half the rate component.
	sub := Score(TextMetrics{SpeakingRate: 200, FillerCount: 0}, af)
	assert.Equal(t, 8.8, sub.Value)
	assert.Contains(t, sub.Feedback, "Hablas muy rápido. Intenta reducir la velocidad para mayor claridad.")

	slow := Score(TextMetrics{SpeakingRate: 50, FillerCount: 0}, af)
	assert.Contains(t, slow.Feedback, "Hablas muy lento. Intenta aumentar ligeramente la velocidad.")
}

func TestScoreLowActivityFeedback(t *testing.T) {
	sub := Score(TextMetrics{SpeakingRate: 150}, AudioFeatures{ClarityScore: 4, VoiceActivityRatio: 0.3})
	assert.Contains(t, sub.Feedback, "Trabaja en tu articulación. Abre más la boca y pronuncia claramente.")
	assert.Contains(t, sub.Feedback, "Incrementa tu presencia vocal. Evita pausas muy largas.")
}

func TestAnalyzeWithoutAnySignal(t *testing.T) {
	report := Analyze(nil, nil, 0)

	assert.Equal(t, 0.0, report.Score.Value)
	require.Len(t, report.Score.Feedback, 1)
	assert.Equal(t, "Error en el análisis de voz: no se obtuvo señal de audio ni transcripción.", report.Score.Feedback[0])
	assert.Empty(t, report.Timeline)
}

func TestAnalyzeTranscriptOnly(t *testing.T) {
	tr := &entity.Transcript{
		Text:     "Hoy les presento los resultados del proyecto y sus conclusiones principales.",
		Language: "es",
		Segments: []entity.TranscriptSegment{{Start: 0, End: 4, Text: "Hoy les presento", AvgLogProb: -0.2}},
	}

	report := Analyze(tr, nil, 0)

	assert.Greater(t, report.Score.Value, 0.0)
	assert.Equal(t, tr.Text, report.Transcription)
	require.Len(t, report.Timeline, 1)
	assert.Equal(t, AudioFeatures{}, report.Audio)
}

func TestErrorMarkerTranscriptIsUnusable(t *testing.T) {
	tr := &entity.Transcript{Text: "Error en la transcripción"}
	report := Analyze(tr, nil, 0)
	assert.Equal(t, 0.0, report.Score.Value)
}
