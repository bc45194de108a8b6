package entity

import "github.com/google/uuid"

// AnalysisRequestMessage is the inbound message from the analysis.requests
// queue. WithContent enables the advanced content analysis; Script, when
// present, is scored instead of (and compared against) the transcript.
type AnalysisRequestMessage struct {
	JobID       uuid.UUID `json:"job_id"`
	UserID      string    `json:"user_id"`
	VideoKey    string    `json:"video_key"`
	Language    string    `json:"language,omitempty"`
	WithContent bool      `json:"with_content,omitempty"`
	Script      string    `json:"script,omitempty"`
	UserEmail   string    `json:"user_email,omitempty"`
}

// AnalysisStatusMessage is the outbound message published to the
// analysis.status queue.
type AnalysisStatusMessage struct {
	JobID        uuid.UUID `json:"job_id"`
	UserID       string    `json:"user_id"`
	Status       JobStatus `json:"status"`
	VideoKey     string    `json:"video_key"`
	OverallScore float64   `json:"overall_score,omitempty"`
	VoiceScore   float64   `json:"voice_score,omitempty"`
	BodyScore    float64   `json:"body_score,omitempty"`
	FacialScore  float64   `json:"facial_score,omitempty"`
	ContentScore *float64  `json:"content_score,omitempty"`
	Duration     float64   `json:"duration_seconds,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Attempt      int       `json:"attempt"`
	MaxAttempts  int       `json:"max_attempts"`
}
