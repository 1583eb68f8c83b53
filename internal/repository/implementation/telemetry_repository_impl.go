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

type PhysiologicalDataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HDTMapper
}

func NewPhysiologicalDataRepository(db *gorm.DB) contract.PhysiologicalDataRepository {
	return &PhysiologicalDataRepositoryImpl{db: db, mapper: mapper.NewHDTMapper()}
}

// Create ignores a sample id that is already stored, so a redelivered
// message is harmless.
func (r *PhysiologicalDataRepositoryImpl) Create(ctx context.Context, data *entity.PhysiologicalData) error {
	m := r.mapper.PhysiologicalToModel(data)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *PhysiologicalDataRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PhysiologicalData, error) {
	return findOne[model.PhysiologicalData](ctx, r.db, r.mapper.PhysiologicalToEntity, specs...)
}

func (r *PhysiologicalDataRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PhysiologicalData, error) {
	return findAll[model.PhysiologicalData](ctx, r.db, r.mapper.PhysiologicalToEntity, specs...)
}

type WorkActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HDTMapper
}

func NewWorkActivityRepository(db *gorm.DB) contract.WorkActivityRepository {
	return &WorkActivityRepositoryImpl{db: db, mapper: mapper.NewHDTMapper()}
}

func (r *WorkActivityRepositoryImpl) Create(ctx context.Context, activity *entity.WorkActivity) error {
	m := r.mapper.ActivityToModel(activity)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *WorkActivityRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkActivity, error) {
	return findOne[model.WorkActivity](ctx, r.db, r.mapper.ActivityToEntity, specs...)
}

func (r *WorkActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WorkActivity, error) {
	return findAll[model.WorkActivity](ctx, r.db, r.mapper.ActivityToEntity, specs...)
}
