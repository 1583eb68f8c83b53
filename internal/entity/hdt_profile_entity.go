package entity

import (
	"time"

	"github.com/google/uuid"
)

type HDTProfile struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	RoleType        string
	DisplayName     string
	AvatarModelPath string
	Capabilities    map[string]interface{}
	Preferences     map[string]interface{}
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
