package contract

import (
	"context"

	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
)

type WorkSessionRepository interface {
	Create(ctx context.Context, session *entity.WorkSession) error
	Update(ctx context.Context, session *entity.WorkSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WorkSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
