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

type WorkSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HDTMapper
}

func NewWorkSessionRepository(db *gorm.DB) contract.WorkSessionRepository {
	return &WorkSessionRepositoryImpl{db: db, mapper: mapper.NewHDTMapper()}
}

func (r *WorkSessionRepositoryImpl) Create(ctx context.Context, session *entity.WorkSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *WorkSessionRepositoryImpl) Update(ctx context.Context, session *entity.WorkSession) error {
	m := r.mapper.SessionToModel(session)
	// Select("*") so false and nil fields are written too.
	if err := r.db.WithContext(ctx).Model(m).Select("*").Omit("created_at").Updates(m).Error; err != nil {
		return err
	}
	return nil
}

func (r *WorkSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkSession, error) {
	return findOne[model.WorkSession](ctx, r.db, r.mapper.SessionToEntity, specs...)
}

func (r *WorkSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WorkSession, error) {
	return findAll[model.WorkSession](ctx, r.db, r.mapper.SessionToEntity, specs...)
}

func (r *WorkSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count[model.WorkSession](ctx, r.db, specs...)
}
