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

type HDTProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HDTMapper
}

func NewHDTProfileRepository(db *gorm.DB) contract.HDTProfileRepository {
	return &HDTProfileRepositoryImpl{db: db, mapper: mapper.NewHDTMapper()}
}

func (r *HDTProfileRepositoryImpl) Create(ctx context.Context, profile *entity.HDTProfile) error {
	if profile.Id == uuid.Nil {
		profile.Id = uuid.New()
	}
	m := r.mapper.ProfileToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ProfileToEntity(m)
	return nil
}

func (r *HDTProfileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HDTProfile, error) {
	return findOne[model.HDTProfile](ctx, r.db, r.mapper.ProfileToEntity, specs...)
}

func (r *HDTProfileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HDTProfile, error) {
	return findAll[model.HDTProfile](ctx, r.db, r.mapper.ProfileToEntity, specs...)
}
