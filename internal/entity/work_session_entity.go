package entity

import (
	"time"

	"github.com/google/uuid"
)

type WorkSession struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	ProfileId           uuid.UUID
	StartTime           time.Time
	EndTime             *time.Time
	DurationSeconds     *int
	TotalTasksCompleted int
	AvgCognitiveLoad    *float64
	AvgStressLevel      *float64
	Notes               string
	IsActive            bool
}
