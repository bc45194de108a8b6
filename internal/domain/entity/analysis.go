package entity

import (
	"time"

	"github.com/google/uuid"
)

// SubScore is one modality's 0-10 rating, its component breakdown and the
// feedback strings chosen for it. Values are rounded to one decimal and
// clamped before being surfaced.
type SubScore struct {
	Value      float64            `json:"value"`
	Components map[string]float64 `json:"components,omitempty"`
	Feedback   []string           `json:"feedback"`
}

// MovementPoint is one entry of the body movement timeline.
type MovementPoint struct {
	Time              float64 `json:"time"`
	MovementIntensity float64 `json:"movement_intensity"`
	GestureActive     bool    `json:"gesture_active"`
}

// EmotionPoint is one entry of the facial emotion timeline.
type EmotionPoint struct {
	Time           float64 `json:"time"`
	Confidence     float64 `json:"confidence"`
	Emotion        string  `json:"emotion"`
	SmileIntensity float64 `json:"smile_intensity"`
}

// ConfidencePoint is one entry of the speech confidence timeline, one per
// transcript segment. Confidence is the segment's average log probability
// shifted by +1, a heuristic push toward [0,1], not a true probability.
type ConfidencePoint struct {
	Time       float64 `json:"time"`
	Confidence float64 `json:"confidence"`
	Text       string  `json:"text"`
}

// AnalysisResult is the final artifact of one analyzed video. It is created
// once and never mutated; re-analyzing produces a new result.
type AnalysisResult struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`

	OverallScore float64   `json:"overall_score"`
	Voice        SubScore  `json:"voice"`
	Body         SubScore  `json:"body"`
	Facial       SubScore  `json:"facial"`
	Content      *SubScore `json:"content,omitempty"`

	Transcription string  `json:"transcription"`
	VideoDuration float64 `json:"video_duration"`

	MovementTimeline   []MovementPoint   `json:"movement_timeline"`
	EmotionTimeline    []EmotionPoint    `json:"emotion_timeline"`
	ConfidenceTimeline []ConfidencePoint `json:"confidence_timeline"`
}
