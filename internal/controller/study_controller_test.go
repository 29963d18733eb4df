package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuizService struct {
	service.IQuizService
	notebookId *uuid.UUID
	submitted  *dto.SubmitQuizAttemptRequest
	updated    *dto.UpdateQuizQuestionRequest
}

func (f *fakeQuizService) ListFolders(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.QuizFolderResponse, error) {
	f.notebookId = notebookId
	return []*dto.QuizFolderResponse{}, nil
}

func (f *fakeQuizService) UpdateQuestion(ctx context.Context, userId uuid.UUID, req *dto.UpdateQuizQuestionRequest) (*dto.QuizQuestionResponse, error) {
	f.updated = req
	return &dto.QuizQuestionResponse{Id: req.Id}, nil
}

func (f *fakeQuizService) GetAttempt(ctx context.Context, userId uuid.UUID, folderId uuid.UUID) (*dto.QuizAttemptResponse, error) {
	return nil, apperror.NotFound("No attempt found for this quiz")
}

func (f *fakeQuizService) SubmitAttempt(ctx context.Context, userId uuid.UUID, req *dto.SubmitQuizAttemptRequest) (*dto.QuizAttemptResponse, error) {
	f.submitted = req
	return &dto.QuizAttemptResponse{FolderId: req.FolderId, TotalQuestions: len(req.Results)}, nil
}

type fakeMindMapService struct {
	service.IMindMapService
	created *dto.CreateMindMapRequest
}

func (f *fakeMindMapService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMindMapRequest) (*dto.MindMapResponse, error) {
	f.created = req
	return &dto.MindMapResponse{NotebookId: req.NotebookId, Title: req.Title}, nil
}

func newQuizHarness(t *testing.T) (*harness, *fakeQuizService) {
	quizzes := &fakeQuizService{}
	ctrl := NewQuizController(quizzes)
	h := newHarness(t, func(api fiber.Router, session, csrf fiber.Handler) {
		ctrl.RegisterRoutes(api, session, csrf)
	})
	return h, quizzes
}

func TestQuizFolderListFiltersByNotebook(t *testing.T) {
	h, quizzes := newQuizHarness(t)
	nb := uuid.New()

	resp, _ := h.do(http.MethodGet, "/api/quizzes/folders?notebook_id="+nb.String(), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, quizzes.notebookId)
	assert.Equal(t, nb, *quizzes.notebookId)

	resp, _ = h.do(http.MethodGet, "/api/quizzes/folders?notebook_id=nope", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuizAttemptRoutes(t *testing.T) {
	h, quizzes := newQuizHarness(t)
	folder := uuid.New()
	question := uuid.New()

	resp, body := h.do(http.MethodGet, "/api/quizzes/folders/"+folder.String()+"/attempt", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No attempt found for this quiz", body.Message)

	resp, body = h.do(http.MethodPost, "/api/quizzes/folders/"+folder.String()+"/attempt", map[string]any{
		"results": []map[string]any{
			{"question_id": question, "selected_answer": 1, "is_correct": true},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, quizzes.submitted)
	assert.Equal(t, folder, quizzes.submitted.FolderId)
	require.Len(t, quizzes.submitted.Results, 1)
	assert.Equal(t, question, quizzes.submitted.Results[0].QuestionId)
	assert.Equal(t, 1, decode[dto.QuizAttemptResponse](t, body.Data).TotalQuestions)
}

func TestQuizQuestionUpdateValidatesOptions(t *testing.T) {
	h, quizzes := newQuizHarness(t)
	id := uuid.New()

	resp, _ := h.do(http.MethodPut, "/api/quizzes/"+id.String(), map[string]any{"options": []string{"only one"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, quizzes.updated)

	resp, _ = h.do(http.MethodPut, "/api/quizzes/"+id.String(), map[string]any{"is_favorite": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, quizzes.updated)
	assert.Equal(t, id, quizzes.updated.Id)
	assert.True(t, *quizzes.updated.IsFavorite)
}

func TestMindMapCreateRequiresNotebook(t *testing.T) {
	mindmaps := &fakeMindMapService{}
	ctrl := NewMindMapController(mindmaps)
	h := newHarness(t, func(api fiber.Router, session, csrf fiber.Handler) {
		ctrl.RegisterRoutes(api, session, csrf)
	})

	resp, _ := h.do(http.MethodPost, "/api/mindmaps", map[string]any{"title": "Map"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	nb := uuid.New()
	resp, _ = h.do(http.MethodPost, "/api/mindmaps", map[string]any{"title": "Map", "notebook_id": nb})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, nb, mindmaps.created.NotebookId)
}
