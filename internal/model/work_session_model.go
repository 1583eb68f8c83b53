package model

import (
	"time"

	"github.com/google/uuid"
)

type WorkSession struct {
	Id                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId              uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProfileId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	StartTime           time.Time  `gorm:"not null"`
	EndTime             *time.Time
	DurationSeconds     *int
	TotalTasksCompleted int        `gorm:"not null;default:0"`
	AvgCognitiveLoad    *float64
	AvgStressLevel      *float64
	Notes               string     `gorm:"type:text"`
	IsActive            bool       `gorm:"not null;default:true;index"`
	CreatedAt           time.Time  `gorm:"autoCreateTime"`
}

func (WorkSession) TableName() string {
	return "work_sessions"
}
