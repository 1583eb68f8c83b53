package dto

import (
	"time"

	"hdt-be/pkg/telemetry"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	ProfileId string `json:"profile_id" validate:"required,uuid"`
}

type EndSessionRequest struct {
	Notes string `json:"notes"`
}

type SessionResponse struct {
	Id                  uuid.UUID  `json:"id"`
	ProfileId           uuid.UUID  `json:"profile_id"`
	RoleType            string     `json:"role_type,omitempty"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	DurationSeconds     *int       `json:"duration_seconds"`
	TotalTasksCompleted int        `json:"total_tasks_completed"`
	AvgCognitiveLoad    *float64   `json:"avg_cognitive_load"`
	AvgStressLevel      *float64   `json:"avg_stress_level"`
	Notes               string     `json:"notes"`
	IsActive            bool       `json:"is_active"`
}

// SessionSummaryResponse pairs the stored session with its telemetry
// summary. Telemetry is nil once the finalized summary left the cache.
type SessionSummaryResponse struct {
	Session        SessionResponse    `json:"session"`
	Telemetry      *telemetry.Summary `json:"telemetry"`
	TasksTotal     int64              `json:"tasks_total"`
	TasksCompleted int64              `json:"tasks_completed"`
	TasksFailed    int64              `json:"tasks_failed"`
}
