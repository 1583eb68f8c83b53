package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitTaskRequest struct {
	SessionId   string                 `json:"session_id" validate:"required,uuid"`
	TaskType    string                 `json:"task_type"`
	CommandText string                 `json:"command_text" validate:"required"`
	Context     map[string]interface{} `json:"context"`
	Priority    int                    `json:"priority" validate:"omitempty,min=1,max=10"`
}

type ListTasksRequest struct {
	SessionId string `query:"session_id" validate:"omitempty,uuid"`
}

type TaskResponse struct {
	Id                   uuid.UUID              `json:"id"`
	SessionId            uuid.UUID              `json:"session_id"`
	ProfileId            uuid.UUID              `json:"profile_id"`
	TaskType             string                 `json:"task_type"`
	CommandText          string                 `json:"command_text"`
	Context              map[string]interface{} `json:"context,omitempty"`
	Status               string                 `json:"status"`
	Priority             int                    `json:"priority"`
	CreatedAt            time.Time              `json:"created_at"`
	StartedAt            *time.Time             `json:"started_at"`
	CompletedAt          *time.Time             `json:"completed_at"`
	ExecutionTimeSeconds *int                   `json:"execution_time_seconds"`
	ResultData           map[string]interface{} `json:"result_data"`
	ErrorMessage         *string                `json:"error_message"`
	TokensUsed           int                    `json:"tokens_used"`
}
