package model

import (
	"time"

	"github.com/google/uuid"
)

type AIInteraction struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Role       string    `gorm:"type:varchar(20);not null"` // user, assistant, system
	Content    string    `gorm:"type:text;not null"`
	TokensUsed *int
	Timestamp  time.Time `gorm:"not null;index"`
}

func (AIInteraction) TableName() string {
	return "ai_interactions"
}
