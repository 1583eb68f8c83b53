package dto

import (
	"time"

	"hdt-be/pkg/telemetry"
)

type PhysiologicalRequest struct {
	SessionId            string                 `json:"session_id" validate:"required,uuid"`
	Timestamp            *time.Time             `json:"timestamp"`
	HeartRate            *float64               `json:"heart_rate" validate:"omitempty,gte=0"`
	HeartRateVariability *float64               `json:"heart_rate_variability" validate:"omitempty,gte=0"`
	SkinTemperature      *float64               `json:"skin_temperature"`
	StressLevel          *float64               `json:"stress_level" validate:"omitempty,gte=0,lte=1"`
	CognitiveLoad        *float64               `json:"cognitive_load" validate:"omitempty,gte=0,lte=1"`
	FatigueScore         *float64               `json:"fatigue_score" validate:"omitempty,gte=0,lte=1"`
	PostureScore         *float64               `json:"posture_score" validate:"omitempty,gte=0,lte=1"`
	RawSensorData        map[string]interface{} `json:"raw_sensor_data"`
}

type ActivityRequest struct {
	SessionId       string     `json:"session_id" validate:"required,uuid"`
	Timestamp       *time.Time `json:"timestamp"`
	ActivityType    string     `json:"activity_type" validate:"required"`
	TypingSpeed     *float64   `json:"typing_speed" validate:"omitempty,gte=0"`
	MouseMovements  *int       `json:"mouse_movements" validate:"omitempty,gte=0"`
	ApplicationName string     `json:"application_name"`
	FocusScore      *float64   `json:"focus_score" validate:"omitempty,gte=0,lte=1"`
}

type CurrentStateResponse struct {
	SessionId     string             `json:"session_id"`
	IsActive      bool               `json:"is_active"`
	Physiological *telemetry.Sample  `json:"physiological"`
	Activity      *telemetry.Sample  `json:"activity"`
	Summary       *telemetry.Summary `json:"summary,omitempty"`
}
