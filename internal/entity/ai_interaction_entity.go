package entity

import (
	"time"

	"github.com/google/uuid"
)

type AIInteraction struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	Role       string
	Content    string
	TokensUsed *int
	Timestamp  time.Time
}
