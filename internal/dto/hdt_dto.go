package dto

import (
	"time"

	"hdt-be/pkg/prompt"

	"github.com/google/uuid"
)

type RoleResponse struct {
	RoleType     string              `json:"role_type"`
	DisplayName  string              `json:"display_name"`
	Capabilities prompt.Capabilities `json:"capabilities"`
}

type CreateProfileRequest struct {
	RoleType    string                 `json:"role_type" validate:"required,oneof=software_engineer office_worker factory_worker"`
	DisplayName string                 `json:"display_name" validate:"omitempty,max=255"`
	Preferences map[string]interface{} `json:"preferences"`
}

type ProfileResponse struct {
	Id              uuid.UUID              `json:"id"`
	UserId          uuid.UUID              `json:"user_id"`
	RoleType        string                 `json:"role_type"`
	DisplayName     string                 `json:"display_name"`
	AvatarModelPath string                 `json:"avatar_model_path"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	Preferences     map[string]interface{} `json:"preferences"`
	CreatedAt       time.Time              `json:"created_at"`
}
