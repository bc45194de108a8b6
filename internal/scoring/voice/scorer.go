package voice

import (
	"math"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Report is the finalized voice session output.
type Report struct {
	Score         entity.SubScore
	Text          TextMetrics
	Audio         AudioFeatures
	Transcription string
	Timeline      []entity.ConfidencePoint
}

// Analyze scores the voice modality from the transcript and the mono audio
// stream. Either input may be missing; only the absence of both yields the
// degenerate all-zero sub-score.
func Analyze(tr *entity.Transcript, samples []float64, sampleRate int) Report {
	if !tr.Usable() && len(samples) == 0 {
		return Report{
			Score: entity.SubScore{
				Value:      0,
				Components: map[string]float64{"clarity_score": 0, "speaking_rate": 0, "filler_count": 0, "voice_activity_ratio": 0},
				Feedback:   []string{"Error en el análisis de voz: no se obtuvo señal de audio ni transcripción."},
			},
		}
	}

	var text string
	var segments []entity.TranscriptSegment
	if tr.Usable() {
		text = tr.Text
		segments = tr.Segments
	}

	tm := AnalyzeText(text)
	af := AnalyzeAudio(samples, sampleRate)

	return Report{
		Score:         Score(tm, af),
		Text:          tm,
		Audio:         af,
		Transcription: text,
		Timeline:      ConfidenceTimeline(segments),
	}
}

// Score maps the session metrics to the 0-10 voice sub-score: clarity 30%,
// speaking rate 25%, filler control 25%, voice activity 20%.
func Score(tm TextMetrics, af AudioFeatures) entity.SubScore {
	clarityComponent := af.ClarityScore / 10 * 3

	rateScore := math.Max(0, 10-math.Abs(tm.SpeakingRate-idealSpeakingRate)/10)
	rateComponent := rateScore / 10 * 2.5

	fillerComponent := math.Max(0, 2.5-math.Min(5, float64(tm.FillerCount)*0.5))

	voiceComponent := af.VoiceActivityRatio * 2

	total := scoring.Round1(scoring.Clamp(
		clarityComponent+rateComponent+fillerComponent+voiceComponent, 0, 10))

	return entity.SubScore{
		Value: total,
		Components: map[string]float64{
			"clarity_score":        af.ClarityScore,
			"speaking_rate":        tm.SpeakingRate,
			"filler_count":         float64(tm.FillerCount),
			"word_count":           float64(tm.WordCount),
			"voice_activity_ratio": af.VoiceActivityRatio,
			"pitch_variation":      af.PitchVariation,
		},
		Feedback: feedback(total, tm, af),
	}
}

// feedback applies the fixed threshold ladders: overall first, then speaking
// rate, filler words, clarity and voice activity in canonical order. The
// voice-activity ladder only fires when presence is low.
func feedback(total float64, tm TextMetrics, af AudioFeatures) []string {
	var fb []string

	switch {
	case total >= 8:
		fb = append(fb, "¡Excelente trabajo! Tu dicción y fluidez son muy buenas.")
	case total >= 6:
		fb = append(fb, "Buen desempeño general, pero hay áreas de mejora.")
	default:
		fb = append(fb, "Necesitas trabajar en tu técnica vocal y fluidez.")
	}

	switch {
	case tm.SpeakingRate > 180:
		fb = append(fb, "Hablas muy rápido. Intenta reducir la velocidad para mayor claridad.")
	case tm.SpeakingRate < 120:
		fb = append(fb, "Hablas muy lento. Intenta aumentar ligeramente la velocidad.")
	default:
		fb = append(fb, "Tu velocidad de habla es adecuada.")
	}

	switch {
	case tm.FillerCount > 10:
		fb = append(fb, "Usas demasiadas muletillas. Practica pausas conscientes en lugar de 'eh', 'este', etc.")
	case tm.FillerCount > 5:
		fb = append(fb, "Reduce el uso de muletillas para sonar más profesional.")
	default:
		fb = append(fb, "Excelente control de muletillas.")
	}

	if af.ClarityScore < 6 {
		fb = append(fb, "Trabaja en tu articulación. Abre más la boca y pronuncia claramente.")
	} else {
		fb = append(fb, "Tu claridad vocal es buena.")
	}

	if af.VoiceActivityRatio < 0.6 {
		fb = append(fb, "Incrementa tu presencia vocal. Evita pausas muy largas.")
	}

	return fb
}
