package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PhysiologicalData struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId            uuid.UUID `gorm:"type:uuid;not null;index"`
	Timestamp            time.Time `gorm:"not null;index"`
	HeartRate            *float64
	HeartRateVariability *float64
	SkinTemperature      *float64
	StressLevel          *float64
	CognitiveLoad        *float64
	FatigueScore         *float64
	PostureScore         *float64
	RawSensorData        datatypes.JSON
}

func (PhysiologicalData) TableName() string {
	return "physiological_data"
}

type WorkActivity struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Timestamp       time.Time `gorm:"not null;index"`
	ActivityType    string    `gorm:"type:varchar(100);not null"`
	TypingSpeed     *float64
	MouseMovements  *int
	ApplicationName string    `gorm:"type:varchar(255)"`
	FocusScore      *float64
}

func (WorkActivity) TableName() string {
	return "work_activities"
}
