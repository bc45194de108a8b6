package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// AnalysisJob tracks the lifecycle of one scoring request: which video,
// how many attempts, and the headline score once completed. The full
// AnalysisResult lives in its own table.
type AnalysisJob struct {
	ID            uuid.UUID
	UserID        string
	VideoKey      string
	Language      string
	Status        JobStatus
	OverallScore  float64
	VideoDuration float64
	ResultID      *uuid.UUID
	Attempt       int
	MaxAttempts   int
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

func NewAnalysisJob(userID, videoKey, language string, maxAttempts int) *AnalysisJob {
	now := time.Now().UTC()
	return &AnalysisJob{
		ID:          uuid.New(),
		UserID:      userID,
		VideoKey:    videoKey,
		Language:    language,
		Status:      JobStatusPending,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *AnalysisJob) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

func (j *AnalysisJob) MarkCompleted(resultID uuid.UUID, overallScore, duration float64) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.ResultID = &resultID
	j.OverallScore = overallScore
	j.VideoDuration = duration
	j.ErrorMessage = ""
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *AnalysisJob) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *AnalysisJob) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}
