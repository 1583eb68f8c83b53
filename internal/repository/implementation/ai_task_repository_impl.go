package implementation

import (
	"context"

	"hdt-be/internal/entity"
	"hdt-be/internal/mapper"
	"hdt-be/internal/model"
	"hdt-be/internal/repository/contract"
	"hdt-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AITaskRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HDTMapper
}

func NewAITaskRepository(db *gorm.DB) contract.AITaskRepository {
	return &AITaskRepositoryImpl{db: db, mapper: mapper.NewHDTMapper()}
}

func (r *AITaskRepositoryImpl) Save(ctx context.Context, task *entity.AITask) error {
	m := r.mapper.TaskToModel(task)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *AITaskRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AITask, error) {
	return findOne[model.AITask](ctx, r.db, r.mapper.TaskToEntity, specs...)
}

func (r *AITaskRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AITask, error) {
	return findAll[model.AITask](ctx, r.db, r.mapper.TaskToEntity, specs...)
}

func (r *AITaskRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count[model.AITask](ctx, r.db, specs...)
}
