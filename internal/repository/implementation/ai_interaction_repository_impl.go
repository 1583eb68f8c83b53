package implementation

import (
	"context"

	"hdt-be/internal/entity"
	"hdt-be/internal/mapper"
	"hdt-be/internal/model"
	"hdt-be/internal/repository/contract"
	"hdt-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AIInteractionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HDTMapper
}

func NewAIInteractionRepository(db *gorm.DB) contract.AIInteractionRepository {
	return &AIInteractionRepositoryImpl{db: db, mapper: mapper.NewHDTMapper()}
}

func (r *AIInteractionRepositoryImpl) Create(ctx context.Context, interaction *entity.AIInteraction) error {
	if interaction.Id == uuid.Nil {
		interaction.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.InteractionToModel(interaction)).Error
}

func (r *AIInteractionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AIInteraction, error) {
	return findAll[model.AIInteraction](ctx, r.db, r.mapper.InteractionToEntity, specs...)
}
