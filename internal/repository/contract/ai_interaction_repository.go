package contract

import (
	"context"

	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
)

type AIInteractionRepository interface {
	Create(ctx context.Context, interaction *entity.AIInteraction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AIInteraction, error)
}
