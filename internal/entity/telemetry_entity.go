package entity

import (
	"time"

	"github.com/google/uuid"
)

type PhysiologicalData struct {
	Id                   uuid.UUID
	SessionId            uuid.UUID
	Timestamp            time.Time
	HeartRate            *float64
	HeartRateVariability *float64
	SkinTemperature      *float64
	StressLevel          *float64
	CognitiveLoad        *float64
	FatigueScore         *float64
	PostureScore         *float64
	RawSensorData        map[string]interface{}
}

type WorkActivity struct {
	Id              uuid.UUID
	SessionId       uuid.UUID
	Timestamp       time.Time
	ActivityType    string
	TypingSpeed     *float64
	MouseMovements  *int
	ApplicationName string
	FocusScore      *float64
}
