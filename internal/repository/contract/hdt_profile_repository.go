package contract

import (
	"context"

	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
)

type HDTProfileRepository interface {
	Create(ctx context.Context, profile *entity.HDTProfile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HDTProfile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HDTProfile, error)
}
