package facial

import (
	"math"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Scoring constants.
const (
	smileThreshold = 0.3 // per-frame intensity above which a frame counts as smiling

	eyeContactWeight = 0.4
	confidenceWeight = 0.35
	smileWeight      = 0.25

	minSmileShare = 0.1 // below: ramp encouraging any smiling
	maxSmileShare = 0.5 // above: penalty for excess
)

// Aggregator folds the ordered per-frame facial feature stream of one
// session into session metrics. Blink events are debounced: only a
// closed-after-open transition counts.
type Aggregator struct {
	frames      int
	eyeSum      float64
	confSum     float64
	smileFrames int
	blinks      int
	lastBlink   bool
	timeline    []entity.EmotionPoint
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Observe consumes the next processed frame at timestamp t seconds. A nil
// landmark set is a detection gap and contributes nothing.
func (a *Aggregator) Observe(t float64, lm *entity.FaceLandmarks) {
	feats, ok := Extract(lm)
	if !ok {
		return
	}

	a.frames++
	a.eyeSum += feats.EyeContact
	a.confSum += feats.EmotionConfidence
	if feats.SmileIntensity > smileThreshold {
		a.smileFrames++
	}
	if feats.Blink && !a.lastBlink {
		a.blinks++
	}
	a.lastBlink = feats.Blink

	a.timeline = append(a.timeline, entity.EmotionPoint{
		Time:           t,
		Confidence:     feats.EmotionConfidence,
		Emotion:        feats.Emotion,
		SmileIntensity: feats.SmileIntensity,
	})
}

// Report is the finalized facial session output.
type Report struct {
	Score           entity.SubScore
	EyeContactScore float64
	ConfidenceScore float64
	SmileScore      float64
	SmilePercentage float64 // percent of frames smiling
	BlinkRate       float64 // blinks per minute
	Frames          int
	Timeline        []entity.EmotionPoint
}

// Result finalizes the session. A session with zero detected faces yields an
// all-zero sub-score with an explicit error feedback string.
func (a *Aggregator) Result(durationSeconds float64) Report {
	if a.frames == 0 {
		return Report{
			Score: entity.SubScore{
				Value:      0,
				Components: map[string]float64{"eye_contact_score": 0, "confidence_score": 0, "smile_score": 0, "blink_rate": 0},
				Feedback:   []string{"Error en análisis facial: no se detectó ningún rostro en el video."},
			},
		}
	}

	eyeContactScore := scoring.Round1(a.eyeSum / float64(a.frames) * 10)
	confidenceScore := scoring.Round1(a.confSum / float64(a.frames) * 10)

	smileShare := float64(a.smileFrames) / float64(a.frames)
	smileScore := scoreSmileShare(smileShare)

	blinkRate := scoring.Round1(float64(a.blinks) / math.Max(1, durationSeconds) * 60)

	overall := scoring.Round1(eyeContactScore*eyeContactWeight +
		confidenceScore*confidenceWeight +
		smileScore*smileWeight)

	smilePct := scoring.Round1(smileShare * 100)

	return Report{
		Score: entity.SubScore{
			Value: overall,
			Components: map[string]float64{
				"eye_contact_score": eyeContactScore,
				"confidence_score":  confidenceScore,
				"smile_score":       smileScore,
				"smile_percentage":  smilePct,
				"blink_rate":        blinkRate,
			},
			Feedback: feedback(overall, eyeContactScore, confidenceScore, smilePct, blinkRate),
		},
		EyeContactScore: eyeContactScore,
		ConfidenceScore: confidenceScore,
		SmileScore:      smileScore,
		SmilePercentage: smilePct,
		BlinkRate:       blinkRate,
		Frames:          a.frames,
		Timeline:        a.timeline,
	}
}

// scoreSmileShare rewards smiling between 10% and 50% of the session, ramps
// up toward that band from below and penalizes excess above it.
func scoreSmileShare(share float64) float64 {
	switch {
	case share < minSmileShare:
		return share * 50
	case share > maxSmileShare:
		return math.Max(0, 10-(share-maxSmileShare)*20)
	default:
		return 10
	}
}

// feedback applies the fixed threshold ladders: overall first, then eye
// contact, confidence, smiling and blink rate in canonical order. The blink
// ladder only fires outside the normal band.
func feedback(overall, eyeContact, confidence, smilePct, blinkRate float64) []string {
	var fb []string

	switch {
	case overall >= 8:
		fb = append(fb, "Excelente expresión facial y contacto visual.")
	case overall >= 6:
		fb = append(fb, "Buena expresión facial con oportunidades de mejora.")
	default:
		fb = append(fb, "Trabaja en tu expresión facial y contacto visual.")
	}

	switch {
	case eyeContact >= 8:
		fb = append(fb, "Mantuviste excelente contacto visual con la audiencia.")
	case eyeContact >= 6:
		fb = append(fb, "Buen contacto visual, trata de mantenerlo más consistente.")
	default:
		fb = append(fb, "Mejora tu contacto visual. Mira directamente a la cámara más frecuentemente.")
	}

	switch {
	case confidence >= 8:
		fb = append(fb, "Proyectaste mucha confianza y seguridad.")
	case confidence >= 6:
		fb = append(fb, "Buena confianza general, relájate un poco más.")
	default:
		fb = append(fb, "Trabaja en proyectar más confianza. Relaja tu expresión facial.")
	}

	switch {
	case smilePct < 10:
		fb = append(fb, "Sonríe más durante tu presentación para conectar mejor con la audiencia.")
	case smilePct > 50:
		fb = append(fb, "Reduce ligeramente las sonrisas para mantener seriedad cuando sea apropiado.")
	default:
		fb = append(fb, "Buen equilibrio de expresiones faciales.")
	}

	switch {
	case blinkRate > 30:
		fb = append(fb, "Parpadeas demasiado, puede indicar nerviosismo. Trata de relajarte.")
	case blinkRate < 10:
		fb = append(fb, "Parpadea más naturalmente para evitar verse muy tenso.")
	}

	return fb
}
