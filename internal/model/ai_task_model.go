package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AITask struct {
	Id                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SessionId            uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProfileId            uuid.UUID  `gorm:"type:uuid;not null"`
	TaskType             string     `gorm:"type:varchar(50);not null"`
	CommandText          string     `gorm:"type:text;not null"`
	Context              datatypes.JSON
	Status               string     `gorm:"type:varchar(20);not null;index"`
	Priority             int        `gorm:"not null;default:5"`
	CreatedAt            time.Time  `gorm:"not null;index"`
	StartedAt            *time.Time
	CompletedAt          *time.Time
	ExecutionTimeSeconds *int
	ResultData           datatypes.JSON
	ErrorMessage         *string    `gorm:"type:text"`
	TokensUsed           int        `gorm:"not null;default:0"`
}

func (AITask) TableName() string {
	return "ai_tasks"
}
