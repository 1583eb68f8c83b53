package unitofwork

import (
	"context"
	"fmt"

	"hdt-be/internal/repository/contract"
	"hdt-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) HDTProfileRepository() contract.HDTProfileRepository {
	return implementation.NewHDTProfileRepository(u.getDB())
}

func (u *UnitOfWorkImpl) WorkSessionRepository() contract.WorkSessionRepository {
	return implementation.NewWorkSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AITaskRepository() contract.AITaskRepository {
	return implementation.NewAITaskRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PhysiologicalDataRepository() contract.PhysiologicalDataRepository {
	return implementation.NewPhysiologicalDataRepository(u.getDB())
}

func (u *UnitOfWorkImpl) WorkActivityRepository() contract.WorkActivityRepository {
	return implementation.NewWorkActivityRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AIInteractionRepository() contract.AIInteractionRepository {
	return implementation.NewAIInteractionRepository(u.getDB())
}
