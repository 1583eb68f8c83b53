package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hdt-be/internal/dto"
	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/prompt"

	"github.com/google/uuid"
)

type IProfileService interface {
	ListRoles() []*dto.RoleResponse
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory) IProfileService {
	return &profileService{uowFactory: uowFactory}
}

func (s *profileService) ListRoles() []*dto.RoleResponse {
	res := make([]*dto.RoleResponse, 0, len(prompt.Roles))
	for _, role := range prompt.Roles {
		res = append(res, &dto.RoleResponse{
			RoleType:     string(role),
			DisplayName:  role.DisplayName(),
			Capabilities: role.Capabilities(),
		})
	}
	return res
}

func (s *profileService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	role, err := prompt.ParseRole(req.RoleType)
	if err != nil {
		return nil, apperr.New(apperr.ErrValidation, err.Error())
	}

	capabilities, err := capabilitiesMap(role.Capabilities())
	if err != nil {
		return nil, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = role.DisplayName()
	}

	now := time.Now().UTC()
	profile := &entity.HDTProfile{
		Id:              uuid.New(),
		UserId:          userId,
		RoleType:        string(role),
		DisplayName:     displayName,
		AvatarModelPath: fmt.Sprintf("models/avatars/%s.fbx", role),
		Capabilities:    capabilities,
		Preferences:     req.Preferences,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.HDTProfileRepository().Create(ctx, profile); err != nil {
		return nil, err
	}

	return profileResponse(profile), nil
}

func (s *profileService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profiles, err := uow.HDTProfileRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		res = append(res, profileResponse(p))
	}
	return res, nil
}

func capabilitiesMap(c prompt.Capabilities) (map[string]interface{}, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func profileResponse(p *entity.HDTProfile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		Id:              p.Id,
		UserId:          p.UserId,
		RoleType:        p.RoleType,
		DisplayName:     p.DisplayName,
		AvatarModelPath: p.AvatarModelPath,
		Capabilities:    p.Capabilities,
		Preferences:     p.Preferences,
		CreatedAt:       p.CreatedAt,
	}
}
