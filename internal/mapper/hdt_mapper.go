package mapper

import (
	"encoding/json"

	"hdt-be/internal/entity"
	"hdt-be/internal/model"

	"gorm.io/datatypes"
)

type HDTMapper struct{}

func NewHDTMapper() *HDTMapper {
	return &HDTMapper{}
}

func toJSON(m map[string]interface{}) datatypes.JSON {
	if m == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func fromJSON(j datatypes.JSON) map[string]interface{} {
	if len(j) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}
	return m
}

// Profile

func (m *HDTMapper) ProfileToEntity(p *model.HDTProfile) *entity.HDTProfile {
	if p == nil {
		return nil
	}
	return &entity.HDTProfile{
		Id:              p.Id,
		UserId:          p.UserId,
		RoleType:        p.RoleType,
		DisplayName:     p.DisplayName,
		AvatarModelPath: p.AvatarModelPath,
		Capabilities:    fromJSON(p.Capabilities),
		Preferences:     fromJSON(p.Preferences),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (m *HDTMapper) ProfileToModel(p *entity.HDTProfile) *model.HDTProfile {
	if p == nil {
		return nil
	}
	return &model.HDTProfile{
		Id:              p.Id,
		UserId:          p.UserId,
		RoleType:        p.RoleType,
		DisplayName:     p.DisplayName,
		AvatarModelPath: p.AvatarModelPath,
		Capabilities:    toJSON(p.Capabilities),
		Preferences:     toJSON(p.Preferences),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// Work session

func (m *HDTMapper) SessionToEntity(s *model.WorkSession) *entity.WorkSession {
	if s == nil {
		return nil
	}
	return &entity.WorkSession{
		Id:                  s.Id,
		UserId:              s.UserId,
		ProfileId:           s.ProfileId,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		DurationSeconds:     s.DurationSeconds,
		TotalTasksCompleted: s.TotalTasksCompleted,
		AvgCognitiveLoad:    s.AvgCognitiveLoad,
		AvgStressLevel:      s.AvgStressLevel,
		Notes:               s.Notes,
		IsActive:            s.IsActive,
	}
}

func (m *HDTMapper) SessionToModel(s *entity.WorkSession) *model.WorkSession {
	if s == nil {
		return nil
	}
	return &model.WorkSession{
		Id:                  s.Id,
		UserId:              s.UserId,
		ProfileId:           s.ProfileId,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		DurationSeconds:     s.DurationSeconds,
		TotalTasksCompleted: s.TotalTasksCompleted,
		AvgCognitiveLoad:    s.AvgCognitiveLoad,
		AvgStressLevel:      s.AvgStressLevel,
		Notes:               s.Notes,
		IsActive:            s.IsActive,
	}
}

// Task

func (m *HDTMapper) TaskToEntity(t *model.AITask) *entity.AITask {
	if t == nil {
		return nil
	}
	return &entity.AITask{
		Id:                   t.Id,
		SessionId:            t.SessionId,
		ProfileId:            t.ProfileId,
		TaskType:             t.TaskType,
		CommandText:          t.CommandText,
		Context:              fromJSON(t.Context),
		Status:               t.Status,
		Priority:             t.Priority,
		CreatedAt:            t.CreatedAt,
		StartedAt:            t.StartedAt,
		CompletedAt:          t.CompletedAt,
		ExecutionTimeSeconds: t.ExecutionTimeSeconds,
		ResultData:           fromJSON(t.ResultData),
		ErrorMessage:         t.ErrorMessage,
		TokensUsed:           t.TokensUsed,
	}
}

func (m *HDTMapper) TaskToModel(t *entity.AITask) *model.AITask {
	if t == nil {
		return nil
	}
	return &model.AITask{
		Id:                   t.Id,
		SessionId:            t.SessionId,
		ProfileId:            t.ProfileId,
		TaskType:             t.TaskType,
		CommandText:          t.CommandText,
		Context:              toJSON(t.Context),
		Status:               t.Status,
		Priority:             t.Priority,
		CreatedAt:            t.CreatedAt,
		StartedAt:            t.StartedAt,
		CompletedAt:          t.CompletedAt,
		ExecutionTimeSeconds: t.ExecutionTimeSeconds,
		ResultData:           toJSON(t.ResultData),
		ErrorMessage:         t.ErrorMessage,
		TokensUsed:           t.TokensUsed,
	}
}

// Telemetry

func (m *HDTMapper) PhysiologicalToEntity(p *model.PhysiologicalData) *entity.PhysiologicalData {
	if p == nil {
		return nil
	}
	return &entity.PhysiologicalData{
		Id:                   p.Id,
		SessionId:            p.SessionId,
		Timestamp:            p.Timestamp,
		HeartRate:            p.HeartRate,
		HeartRateVariability: p.HeartRateVariability,
		SkinTemperature:      p.SkinTemperature,
		StressLevel:          p.StressLevel,
		CognitiveLoad:        p.CognitiveLoad,
		FatigueScore:         p.FatigueScore,
		PostureScore:         p.PostureScore,
		RawSensorData:        fromJSON(p.RawSensorData),
	}
}

func (m *HDTMapper) PhysiologicalToModel(p *entity.PhysiologicalData) *model.PhysiologicalData {
	if p == nil {
		return nil
	}
	return &model.PhysiologicalData{
		Id:                   p.Id,
		SessionId:            p.SessionId,
		Timestamp:            p.Timestamp,
		HeartRate:            p.HeartRate,
		HeartRateVariability: p.HeartRateVariability,
		SkinTemperature:      p.SkinTemperature,
		StressLevel:          p.StressLevel,
		CognitiveLoad:        p.CognitiveLoad,
		FatigueScore:         p.FatigueScore,
		PostureScore:         p.PostureScore,
		RawSensorData:        toJSON(p.RawSensorData),
	}
}

func (m *HDTMapper) ActivityToEntity(a *model.WorkActivity) *entity.WorkActivity {
	if a == nil {
		return nil
	}
	return &entity.WorkActivity{
		Id:              a.Id,
		SessionId:       a.SessionId,
		Timestamp:       a.Timestamp,
		ActivityType:    a.ActivityType,
		TypingSpeed:     a.TypingSpeed,
		MouseMovements:  a.MouseMovements,
		ApplicationName: a.ApplicationName,
		FocusScore:      a.FocusScore,
	}
}

func (m *HDTMapper) ActivityToModel(a *entity.WorkActivity) *model.WorkActivity {
	if a == nil {
		return nil
	}
	return &model.WorkActivity{
		Id:              a.Id,
		SessionId:       a.SessionId,
		Timestamp:       a.Timestamp,
		ActivityType:    a.ActivityType,
		TypingSpeed:     a.TypingSpeed,
		MouseMovements:  a.MouseMovements,
		ApplicationName: a.ApplicationName,
		FocusScore:      a.FocusScore,
	}
}

// Interaction

func (m *HDTMapper) InteractionToEntity(i *model.AIInteraction) *entity.AIInteraction {
	if i == nil {
		return nil
	}
	return &entity.AIInteraction{
		Id:         i.Id,
		SessionId:  i.SessionId,
		Role:       i.Role,
		Content:    i.Content,
		TokensUsed: i.TokensUsed,
		Timestamp:  i.Timestamp,
	}
}

func (m *HDTMapper) InteractionToModel(i *entity.AIInteraction) *model.AIInteraction {
	if i == nil {
		return nil
	}
	return &model.AIInteraction{
		Id:         i.Id,
		SessionId:  i.SessionId,
		Role:       i.Role,
		Content:    i.Content,
		TokensUsed: i.TokensUsed,
		Timestamp:  i.Timestamp,
	}
}
