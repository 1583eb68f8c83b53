package telemetry

import (
	"fmt"
	"time"

	"hdt-be/pkg/apperr"
)

type Kind string

const (
	KindPhysiological Kind = "physiological"
	KindActivity      Kind = "activity"
)

type Physiological struct {
	HeartRate            *float64               `json:"heart_rate,omitempty"`
	HeartRateVariability *float64               `json:"heart_rate_variability,omitempty"`
	SkinTemperature      *float64               `json:"skin_temperature,omitempty"`
	StressLevel          *float64               `json:"stress_level,omitempty"`
	CognitiveLoad        *float64               `json:"cognitive_load,omitempty"`
	FatigueScore         *float64               `json:"fatigue_score,omitempty"`
	PostureScore         *float64               `json:"posture_score,omitempty"`
	RawSensorData        map[string]interface{} `json:"raw_sensor_data,omitempty"`
}

type Activity struct {
	ActivityType    string   `json:"activity_type"`
	TypingSpeed     *float64 `json:"typing_speed,omitempty"`
	MouseMovements  *int     `json:"mouse_movements,omitempty"`
	ApplicationName string   `json:"application_name,omitempty"`
	FocusScore      *float64 `json:"focus_score,omitempty"`
}

// Sample is one timestamped measurement. Exactly one of Physiological and
// Activity is set, matching Kind.
type Sample struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"session_id"`
	Kind          Kind           `json:"type"`
	Timestamp     time.Time      `json:"timestamp"`
	Physiological *Physiological `json:"physiological,omitempty"`
	Activity      *Activity      `json:"activity,omitempty"`
}

func (s Sample) Validate() error {
	if s.SessionID == "" {
		return apperr.New(apperr.ErrValidation, "session_id is required")
	}
	switch s.Kind {
	case KindPhysiological:
		if s.Physiological == nil || s.Activity != nil {
			return apperr.New(apperr.ErrValidation, "physiological sample needs exactly a physiological payload")
		}
	case KindActivity:
		if s.Activity == nil || s.Physiological != nil {
			return apperr.New(apperr.ErrValidation, "activity sample needs exactly an activity payload")
		}
		if s.Activity.ActivityType == "" {
			return apperr.New(apperr.ErrValidation, "activity_type is required")
		}
	default:
		return apperr.New(apperr.ErrValidation, fmt.Sprintf("unknown sample type %q", s.Kind))
	}
	return nil
}

// Summary is the aggregate over a session's physiological samples. The
// averages are nil while no physiological sample has arrived.
type Summary struct {
	SessionID            string     `json:"session_id"`
	PhysiologicalSamples int        `json:"physiological_samples"`
	ActivitySamples      int        `json:"activity_samples"`
	AvgCognitiveLoad     *float64   `json:"avg_cognitive_load"`
	AvgStressLevel       *float64   `json:"avg_stress_level"`
	StartedAt            time.Time  `json:"started_at"`
	FinalizedAt          *time.Time `json:"finalized_at,omitempty"`
}

func (s Summary) Final() bool {
	return s.FinalizedAt != nil
}
