package entity

import (
	"time"

	"github.com/google/uuid"
)

type AITask struct {
	Id                   uuid.UUID
	SessionId            uuid.UUID
	ProfileId            uuid.UUID
	TaskType             string
	CommandText          string
	Context              map[string]interface{}
	Status               string
	Priority             int
	CreatedAt            time.Time
	StartedAt            *time.Time
	CompletedAt          *time.Time
	ExecutionTimeSeconds *int
	ResultData           map[string]interface{}
	ErrorMessage         *string
	TokensUsed           int
}
