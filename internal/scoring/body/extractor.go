// Package body turns per-frame pose landmarks into body-language features
// and aggregates them into a 0-10 sub-score with feedback.
package body

import (
	"math"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Heuristic thresholds, fixed by design.
const (
	raisedWristOffset  = 0.1 // wrist above shoulder by more than this -> raised hand
	extendedWristReach = 0.2 // wrist further than this from shoulder midpoint x -> extended arm
)

// Features are the per-frame body scalars. Movement is the displacement
// against the previous successfully detected frame and is 0 on the first
// detected frame of a session.
type Features struct {
	Movement      float64
	GestureActive bool
	Posture       float64
}

// Extract computes features for one detected frame. prev is the last frame
// with a detection, or nil at the start of a session; gaps are bridged by
// comparing against the last good frame, not interpolated. The second return
// is false when the frame carries no signal.
func Extract(cur, prev *entity.PoseLandmarks) (Features, bool) {
	if cur == nil {
		return Features{}, false
	}
	f := Features{
		GestureActive: gestureActive(cur),
		Posture:       postureScore(cur),
	}
	if prev != nil {
		f.Movement = movement(cur, prev)
	}
	return f, true
}

// movement sums the Euclidean displacement of nose, wrists and shoulders
// between two detected frames.
func movement(cur, prev *entity.PoseLandmarks) float64 {
	pairs := [][2]entity.Point{
		{cur.Nose, prev.Nose},
		{cur.LeftWrist, prev.LeftWrist},
		{cur.RightWrist, prev.RightWrist},
		{cur.LeftShoulder, prev.LeftShoulder},
		{cur.RightShoulder, prev.RightShoulder},
	}
	total := 0.0
	for _, p := range pairs {
		dx := p[0].X - p[1].X
		dy := p[0].Y - p[1].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// gestureActive reports a raised hand (wrist strictly above the shoulder by
// more than the offset; y grows downward) or an extended arm (wrist far from
// the shoulder midpoint horizontally).
func gestureActive(lm *entity.PoseLandmarks) bool {
	leftRaised := lm.LeftWrist.Y < lm.LeftShoulder.Y-raisedWristOffset
	rightRaised := lm.RightWrist.Y < lm.RightShoulder.Y-raisedWristOffset

	midX := (lm.LeftShoulder.X + lm.RightShoulder.X) / 2
	leftExtended := math.Abs(lm.LeftWrist.X-midX) > extendedWristReach
	rightExtended := math.Abs(lm.RightWrist.X-midX) > extendedWristReach

	return leftRaised || rightRaised || leftExtended || rightExtended
}

// postureScore averages shoulder-level symmetry and head-shoulder horizontal
// alignment, each in [0,1].
func postureScore(lm *entity.PoseLandmarks) float64 {
	shoulderDiff := math.Abs(lm.LeftShoulder.Y - lm.RightShoulder.Y)
	shoulderStability := math.Max(0, 1-shoulderDiff*10)

	midX := (lm.LeftShoulder.X + lm.RightShoulder.X) / 2
	headAlignment := math.Max(0, 1-math.Abs(lm.Nose.X-midX)*5)

	return scoring.Clamp((shoulderStability+headAlignment)/2, 0, 1)
}
