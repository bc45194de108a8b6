package facial

import "github.com/oratoria/presentation-scoring-service/internal/domain/entity"

// faceGeometry are the two pixel-space measurements the emotion heuristic
// runs on: the vertical curve of the mouth corners relative to the mouth
// center, and the eyebrow height above the nose tip.
type faceGeometry struct {
	mouthCurve float64
	browOffset float64
}

// emotionRule is one row of the classification table. The table is a fixed
// if/else decision tree expressed as data: first matching rule wins.
type emotionRule struct {
	match      func(g faceGeometry) bool
	label      string
	confidence float64
}

var emotionRules = []emotionRule{
	{func(g faceGeometry) bool { return g.mouthCurve > 5 }, "confident", 0.8},
	{func(g faceGeometry) bool { return g.mouthCurve < -3 }, "nervous", 0.3},
	{func(g faceGeometry) bool { return g.browOffset > 50 }, "surprised", 0.6},
	{func(g faceGeometry) bool { return true }, "neutral", 0.5},
}

// classifyEmotion runs the decision table on the frame's mouth and eyebrow
// geometry. The final per-frame confidence is the mean of the rule's base
// confidence and the eye-contact proxy.
func classifyEmotion(points []entity.Point, eyeContact float64) (string, float64) {
	noseTip := points[noseTipIndex]
	browOffset := ((noseTip.Y - points[leftBrowIndex].Y) + (noseTip.Y - points[rightBrowIndex].Y)) / 2

	mouthLeft := points[mouthLeftIndex]
	mouthRight := points[mouthRightIndex]
	mouthCenter := points[mouthCenterIndex]
	mouthCurve := (mouthLeft.Y+mouthRight.Y)/2 - mouthCenter.Y

	g := faceGeometry{mouthCurve: mouthCurve, browOffset: browOffset}
	for _, rule := range emotionRules {
		if rule.match(g) {
			return rule.label, (rule.confidence + eyeContact) / 2
		}
	}
	return "neutral", (0.5 + eyeContact) / 2 // unreachable, table ends in a catch-all
}
