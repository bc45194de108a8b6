package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.AnalysisJob) error {
	query := `
		INSERT INTO analysis_jobs (
			id, user_id, video_key, language, status, overall_score,
			video_duration, result_id, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.UserID, job.VideoKey, job.Language, string(job.Status),
		job.OverallScore, job.VideoDuration, job.ResultID,
		job.Attempt, job.MaxAttempts, job.ErrorMessage,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.AnalysisJob) error {
	query := `
		UPDATE analysis_jobs SET
			status=$2, overall_score=$3, video_duration=$4, result_id=$5,
			attempt=$6, error_message=$7, updated_at=$8, completed_at=$9
		WHERE id=$1`

	_, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.OverallScore, job.VideoDuration,
		job.ResultID, job.Attempt, job.ErrorMessage,
		job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error) {
	query := `
		SELECT id, user_id, video_key, language, status, overall_score,
			video_duration, result_id, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		FROM analysis_jobs WHERE id=$1`

	job := &entity.AnalysisJob{}
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UserID, &job.VideoKey, &job.Language, &status,
		&job.OverallScore, &job.VideoDuration, &job.ResultID,
		&job.Attempt, &job.MaxAttempts, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find job by id: %w", err)
	}
	job.Status = entity.JobStatus(status)
	return job, nil
}

// ResultRepository stores finished analyses. Sub-scores and timelines go
// into JSONB columns; the row itself is append-only.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) Save(ctx context.Context, result *entity.AnalysisResult) error {
	voice, err := json.Marshal(result.Voice)
	if err != nil {
		return fmt.Errorf("marshal voice: %w", err)
	}
	bodyScore, err := json.Marshal(result.Body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	facial, err := json.Marshal(result.Facial)
	if err != nil {
		return fmt.Errorf("marshal facial: %w", err)
	}

	var contentScore []byte
	if result.Content != nil {
		if contentScore, err = json.Marshal(result.Content); err != nil {
			return fmt.Errorf("marshal content: %w", err)
		}
	}

	movement, err := json.Marshal(result.MovementTimeline)
	if err != nil {
		return fmt.Errorf("marshal movement timeline: %w", err)
	}
	emotion, err := json.Marshal(result.EmotionTimeline)
	if err != nil {
		return fmt.Errorf("marshal emotion timeline: %w", err)
	}
	confidence, err := json.Marshal(result.ConfidenceTimeline)
	if err != nil {
		return fmt.Errorf("marshal confidence timeline: %w", err)
	}

	query := `
		INSERT INTO analysis_results (
			id, job_id, created_at, overall_score,
			voice, body, facial, content,
			transcription, video_duration,
			movement_timeline, emotion_timeline, confidence_timeline
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err = r.pool.Exec(ctx, query,
		result.ID, result.JobID, result.CreatedAt, result.OverallScore,
		voice, bodyScore, facial, contentScore,
		result.Transcription, result.VideoDuration,
		movement, emotion, confidence,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepository) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.AnalysisResult, error) {
	query := `
		SELECT id, job_id, created_at, overall_score,
			voice, body, facial, content,
			transcription, video_duration,
			movement_timeline, emotion_timeline, confidence_timeline
		FROM analysis_results WHERE job_id=$1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []*entity.AnalysisResult
	for rows.Next() {
		result := &entity.AnalysisResult{}
		var voice, bodyScore, facial, contentScore, movement, emotion, confidence []byte

		if err := rows.Scan(
			&result.ID, &result.JobID, &result.CreatedAt, &result.OverallScore,
			&voice, &bodyScore, &facial, &contentScore,
			&result.Transcription, &result.VideoDuration,
			&movement, &emotion, &confidence,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		if err := json.Unmarshal(voice, &result.Voice); err != nil {
			return nil, fmt.Errorf("unmarshal voice: %w", err)
		}
		if err := json.Unmarshal(bodyScore, &result.Body); err != nil {
			return nil, fmt.Errorf("unmarshal body: %w", err)
		}
		if err := json.Unmarshal(facial, &result.Facial); err != nil {
			return nil, fmt.Errorf("unmarshal facial: %w", err)
		}
		if len(contentScore) > 0 {
			result.Content = &entity.SubScore{}
			if err := json.Unmarshal(contentScore, result.Content); err != nil {
				return nil, fmt.Errorf("unmarshal content: %w", err)
			}
		}
		if err := json.Unmarshal(movement, &result.MovementTimeline); err != nil {
			return nil, fmt.Errorf("unmarshal movement timeline: %w", err)
		}
		if err := json.Unmarshal(emotion, &result.EmotionTimeline); err != nil {
			return nil, fmt.Errorf("unmarshal emotion timeline: %w", err)
		}
		if err := json.Unmarshal(confidence, &result.ConfidenceTimeline); err != nil {
			return nil, fmt.Errorf("unmarshal confidence timeline: %w", err)
		}

		results = append(results, result)
	}
	return results, rows.Err()
}
