package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type HDTProfile struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	RoleType        string         `gorm:"type:varchar(50);not null"`
	DisplayName     string         `gorm:"type:varchar(255);not null"`
	AvatarModelPath string         `gorm:"type:varchar(500)"`
	Capabilities    datatypes.JSON
	Preferences     datatypes.JSON
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (HDTProfile) TableName() string {
	return "hdt_profiles"
}
