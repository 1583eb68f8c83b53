package contract

import (
	"context"

	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
)

type PhysiologicalDataRepository interface {
	Create(ctx context.Context, data *entity.PhysiologicalData) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PhysiologicalData, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PhysiologicalData, error)
}

type WorkActivityRepository interface {
	Create(ctx context.Context, activity *entity.WorkActivity) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkActivity, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WorkActivity, error)
}
