package body

import (
	"math"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Scoring constants.
const (
	optimalMovement = 0.1 // mean per-frame displacement rewarded most

	postureWeight  = 0.4
	movementWeight = 0.3
	gestureWeight  = 0.3

	minGestureRate = 5.0  // gestures/min below which the ramp applies
	maxGestureRate = 20.0 // gestures/min above which the penalty applies

	// DefaultSampleRate is the effective processed-frame rate of the
	// reference cadence (every 5th captured frame at 25 fps).
	DefaultSampleRate = 5.0
)

// Aggregator folds the ordered per-frame pose stream of one session into
// session metrics. It must see frames strictly in temporal order; the last
// successfully detected frame is carried as explicit aggregator state.
type Aggregator struct {
	sampleRate  float64
	lastGood    *entity.PoseLandmarks
	frames      int
	gestures    int
	postureSum  float64
	movementSum float64
	timeline    []entity.MovementPoint
}

func NewAggregator(sampleRate float64) *Aggregator {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Aggregator{sampleRate: sampleRate}
}

// Observe consumes the next processed frame. A nil landmark set is a
// detection gap and contributes nothing.
func (a *Aggregator) Observe(lm *entity.PoseLandmarks) {
	feats, ok := Extract(lm, a.lastGood)
	if !ok {
		return
	}

	a.postureSum += feats.Posture
	a.movementSum += feats.Movement
	if feats.GestureActive {
		a.gestures++
	}
	a.timeline = append(a.timeline, entity.MovementPoint{
		Time:              float64(a.frames) / a.sampleRate,
		MovementIntensity: feats.Movement,
		GestureActive:     feats.GestureActive,
	})
	a.frames++
	a.lastGood = lm
}

// Report is the finalized body session output.
type Report struct {
	Score            entity.SubScore
	PostureStability float64
	MovementScore    float64
	GestureScore     float64
	GestureDensity   float64
	GestureFrames    int
	Frames           int
	Timeline         []entity.MovementPoint
}

// Result finalizes the session. A session with zero detected frames yields
// an all-zero sub-score with an explicit error feedback string.
func (a *Aggregator) Result(durationSeconds float64) Report {
	if a.frames == 0 {
		return Report{
			Score: entity.SubScore{
				Value:      0,
				Components: map[string]float64{"posture_stability": 0, "movement_score": 0, "gesture_score": 0, "gesture_density": 0},
				Feedback:   []string{"Error en análisis corporal: no se detectó ninguna pose en el video."},
			},
		}
	}

	postureStability := scoring.Round1(a.postureSum / float64(a.frames) * 10)

	meanMovement := a.movementSum / float64(a.frames)
	movementScore := scoring.Round1(scoring.Clamp(10-math.Abs(meanMovement-optimalMovement)*50, 0, 10))

	gestureDensity := float64(a.gestures) / math.Max(1, durationSeconds) * 60
	gestureScore := scoreGestureDensity(gestureDensity)

	overall := scoring.Round1(postureStability*postureWeight +
		movementScore*movementWeight +
		gestureScore*gestureWeight)

	return Report{
		Score: entity.SubScore{
			Value: overall,
			Components: map[string]float64{
				"posture_stability": postureStability,
				"movement_score":    movementScore,
				"gesture_score":     gestureScore,
				"gesture_density":   gestureDensity,
			},
			Feedback: feedback(overall, postureStability, movementScore, gestureDensity),
		},
		PostureStability: postureStability,
		MovementScore:    movementScore,
		GestureScore:     gestureScore,
		GestureDensity:   gestureDensity,
		GestureFrames:    a.gestures,
		Frames:           a.frames,
		Timeline:         a.timeline,
	}
}

// scoreGestureDensity is single-peaked: a linear ramp below the optimal band,
// flat 10 inside it, and a linear penalty above it.
func scoreGestureDensity(density float64) float64 {
	switch {
	case density < minGestureRate:
		return math.Max(0, density*2)
	case density > maxGestureRate:
		return math.Max(0, 10-(density-maxGestureRate)*0.5)
	default:
		return 10
	}
}

// feedback applies the fixed threshold ladders: overall assessment first,
// then posture, movement and gestures in canonical order.
func feedback(overall, posture, movement, gestureDensity float64) []string {
	var fb []string

	switch {
	case overall >= 8:
		fb = append(fb, "Excelente presencia corporal y uso del espacio.")
	case overall >= 6:
		fb = append(fb, "Buena presencia corporal con algunas áreas de mejora.")
	default:
		fb = append(fb, "Necesitas trabajar en tu lenguaje corporal y presencia.")
	}

	switch {
	case posture >= 8:
		fb = append(fb, "Mantuviste una postura excelente durante la presentación.")
	case posture >= 6:
		fb = append(fb, "Tu postura es generalmente buena, pero puedes mejorar la alineación.")
	default:
		fb = append(fb, "Trabaja en mantener una postura más erguida y estable.")
	}

	switch {
	case movement >= 8:
		fb = append(fb, "Tus movimientos son naturales y apropiados.")
	case movement >= 6:
		fb = append(fb, "Buen control de movimientos, evita movimientos nerviosos.")
	default:
		fb = append(fb, "Controla mejor tus movimientos. Evita balancearte o moverte excesivamente.")
	}

	switch {
	case gestureDensity > maxGestureRate:
		fb = append(fb, "Reduce la cantidad de gestos. Úsalos de forma más estratégica.")
	case gestureDensity < minGestureRate:
		fb = append(fb, "Incluye más gestos para hacer tu presentación más dinámica.")
	default:
		fb = append(fb, "Buen uso de gestos para complementar tu mensaje.")
	}

	return fb
}
