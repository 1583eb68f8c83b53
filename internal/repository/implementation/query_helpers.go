package implementation

import (
	"context"
	"errors"

	"hdt-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// findOne returns nil, nil when nothing matches.
func findOne[M any, E any](ctx context.Context, db *gorm.DB, toEntity func(*M) *E, specs ...specification.Specification) (*E, error) {
	var m M
	if err := applySpecifications(db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toEntity(&m), nil
}

func findAll[M any, E any](ctx context.Context, db *gorm.DB, toEntity func(*M) *E, specs ...specification.Specification) ([]*E, error) {
	var models []*M
	if err := applySpecifications(db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*E, len(models))
	for i, m := range models {
		entities[i] = toEntity(m)
	}
	return entities, nil
}

func count[M any](ctx context.Context, db *gorm.DB, specs ...specification.Specification) (int64, error) {
	var n int64
	if err := applySpecifications(db.WithContext(ctx).Model(new(M)), specs...).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
