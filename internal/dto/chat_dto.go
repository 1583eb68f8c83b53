package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	SessionId string `json:"session_id" validate:"required,uuid"`
	Message   string `json:"message" validate:"required"`
}

type ChatResponse struct {
	TaskId       uuid.UUID `json:"task_id"`
	Status       string    `json:"status"`
	Response     string    `json:"response"`
	TokensUsed   int       `json:"tokens_used"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}

type InteractionResponse struct {
	Id         uuid.UUID `json:"id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	TokensUsed *int      `json:"tokens_used"`
	Timestamp  time.Time `json:"timestamp"`
}
