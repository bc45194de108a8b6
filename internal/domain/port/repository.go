package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.AnalysisJob) error
	Update(ctx context.Context, job *entity.AnalysisJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error)
}

// ResultRepository persists finished analyses. Results are append-only; a
// re-analysis inserts a new row.
type ResultRepository interface {
	Save(ctx context.Context, result *entity.AnalysisResult) error
	FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.AnalysisResult, error)
}
