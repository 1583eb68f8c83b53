package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hdt-be/internal/dto"
	"hdt-be/internal/pkg/serverutils"
	"hdt-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeTaskService struct {
	submitted *dto.SubmitTaskRequest
	userId    uuid.UUID
	result    *dto.TaskResponse
	err       error
}

func (s *fakeTaskService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitTaskRequest) (*dto.TaskResponse, error) {
	s.submitted = req
	s.userId = userId
	return s.result, s.err
}

func (s *fakeTaskService) GetAll(ctx context.Context, userId uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error) {
	return []*dto.TaskResponse{}, nil
}

func (s *fakeTaskService) Show(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error) {
	return nil, apperr.Newf(apperr.ErrTaskNotFound, "task %s not found", taskId)
}

func newTaskApp(svc *fakeTaskService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewTaskController(svc).RegisterRoutes(app.Group("/api"), serverutils.JwtMiddleware(testSecret))
	return app
}

func TestTaskControllerSubmit(t *testing.T) {
	userId := uuid.New()
	token, err := serverutils.IssueToken(testSecret, userId.String(), time.Hour)
	require.NoError(t, err)

	failedMsg := "AI service not configured. Please set an LLM provider and its API key."
	sessionId := uuid.NewString()

	tests := []struct {
		name     string
		body     string
		result   *dto.TaskResponse
		err      error
		wantCode int
	}{
		{
			name:     "failed task is still created",
			body:     `{"session_id":"` + sessionId + `","command_text":"write tests"}`,
			result:   &dto.TaskResponse{Id: uuid.New(), Status: "failed", ErrorMessage: &failedMsg},
			wantCode: fiber.StatusCreated,
		},
		{
			name:     "missing command",
			body:     `{"session_id":"` + sessionId + `"}`,
			wantCode: fiber.StatusBadRequest,
		},
		{
			name:     "bad priority",
			body:     `{"session_id":"` + sessionId + `","command_text":"x","priority":42}`,
			wantCode: fiber.StatusBadRequest,
		},
		{
			name:     "unknown session",
			body:     `{"session_id":"` + sessionId + `","command_text":"x"}`,
			err:      apperr.New(apperr.ErrSessionNotFound, "session not found"),
			wantCode: fiber.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTaskService{result: tt.result, err: tt.err}
			app := newTaskApp(svc)

			req := httptest.NewRequest("POST", "/api/tasks", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			if tt.wantCode == fiber.StatusCreated {
				var body serverutils.DataResponse[dto.TaskResponse]
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "failed", body.Data.Status)
				assert.Equal(t, failedMsg, *body.Data.ErrorMessage)
				assert.Equal(t, userId, svc.userId)
				assert.Equal(t, "write tests", svc.submitted.CommandText)
			}
		})
	}
}

func TestTaskControllerRoutes(t *testing.T) {
	app := newTaskApp(&fakeTaskService{})
	token, err := serverutils.IssueToken(testSecret, uuid.NewString(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		target   string
		auth     bool
		wantCode int
	}{
		{"no token", "/api/tasks", false, fiber.StatusUnauthorized},
		{"list", "/api/tasks", true, fiber.StatusOK},
		{"list bad session filter", "/api/tasks?session_id=nope", true, fiber.StatusBadRequest},
		{"show unknown", "/api/tasks/" + uuid.NewString(), true, fiber.StatusNotFound},
		{"show bad id", "/api/tasks/nope", true, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}
