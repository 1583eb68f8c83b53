package contract

import (
	"context"

	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
)

type AITaskRepository interface {
	// Save inserts the task or overwrites the stored row with the same id.
	Save(ctx context.Context, task *entity.AITask) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AITask, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AITask, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
