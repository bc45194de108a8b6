// Package facial turns per-frame face-mesh landmarks into expression
// features (eye contact, smile, blink, emotion) and aggregates them into a
// 0-10 sub-score with feedback.
package facial

import (
	"math"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Fixed face-mesh landmark indices (MediaPipe convention).
var (
	leftEyeIndices  = [6]int{33, 160, 158, 133, 153, 144}
	rightEyeIndices = [6]int{362, 385, 387, 263, 373, 380}
	mouthIndices    = [8]int{61, 84, 17, 314, 405, 320, 307, 375}
)

const (
	mouthLeftIndex   = 61
	mouthRightIndex  = 291
	mouthCenterIndex = 13
	leftBrowIndex    = 70
	rightBrowIndex   = 300
	noseTipIndex     = 1
)

const blinkEARThreshold = 0.2

// Features are the per-frame facial scalars. EyeContact is an eye-openness
// proxy, not true gaze estimation.
type Features struct {
	EyeContact        float64
	SmileIntensity    float64
	Blink             bool
	Emotion           string
	EmotionConfidence float64
}

// Extract computes features for one frame's face mesh. The second return is
// false when no face was detected or the mesh is incomplete.
func Extract(lm *entity.FaceLandmarks) (Features, bool) {
	if lm == nil || len(lm.Points) < entity.FaceMeshPoints {
		return Features{}, false
	}

	leftEAR := eyeAspectRatio(lm.Points, leftEyeIndices)
	rightEAR := eyeAspectRatio(lm.Points, rightEyeIndices)
	meanEAR := (leftEAR + rightEAR) / 2

	f := Features{
		EyeContact:     scoring.Clamp(meanEAR*3, 0, 1),
		SmileIntensity: smileIntensity(lm.Points),
		Blink:          meanEAR < blinkEARThreshold,
	}
	f.Emotion, f.EmotionConfidence = classifyEmotion(lm.Points, f.EyeContact)
	return f, true
}

// eyeAspectRatio is (A + B) / (2C): the two vertical eyelid distances over
// the horizontal eye width.
func eyeAspectRatio(points []entity.Point, idx [6]int) float64 {
	a := dist(points[idx[1]], points[idx[5]])
	b := dist(points[idx[2]], points[idx[4]])
	c := dist(points[idx[0]], points[idx[3]])
	if c == 0 {
		return 0
	}
	return (a + b) / (2 * c)
}

// smileIntensity maps the mouth width/height ratio to [0,1]. A wide, flat
// mouth reads as a smile.
func smileIntensity(points []entity.Point) float64 {
	width := dist(points[mouthIndices[0]], points[mouthIndices[4]])
	height := dist(points[mouthIndices[2]], points[mouthIndices[6]])
	if height == 0 {
		return 0
	}
	return scoring.Clamp((width/height-2.5)/2.0, 0, 1)
}

func dist(a, b entity.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
