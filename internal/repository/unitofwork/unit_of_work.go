package unitofwork

import (
	"context"

	"hdt-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	HDTProfileRepository() contract.HDTProfileRepository
	WorkSessionRepository() contract.WorkSessionRepository
	AITaskRepository() contract.AITaskRepository
	PhysiologicalDataRepository() contract.PhysiologicalDataRepository
	WorkActivityRepository() contract.WorkActivityRepository
	AIInteractionRepository() contract.AIInteractionRepository
}
