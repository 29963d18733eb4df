package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iZhuoxx/AI-web/internal/aggregate"
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/pkg/ai/registry"
	"github.com/iZhuoxx/AI-web/pkg/events"
	"github.com/iZhuoxx/AI-web/pkg/llm"

	"github.com/google/uuid"
)

const (
	featureQuizSummary      = "quizSummary"
	summaryWrongQuestionCap = 5
	summaryTemperature      = 0.3
	summaryFallback         = "测验完成！继续加油！"
	summarySystemPrompt     = "你是一位专业的学习顾问。根据用户的测验结果，提供简短、鼓励性的个性化反馈。反馈应该包含：1) 对本次表现的评价 2) 针对错题的学习建议 3) 下一步学习建议。请使用 Markdown 输出（不要代码块），用小标题和项目符号组织内容。保持积极的语气。"
	quizModuleName          = "QuizService"
)

type IQuizService interface {
	ListQuestions(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]dto.QuizQuestionResponse, error)
	CreateQuestion(ctx context.Context, userId uuid.UUID, req *dto.CreateQuizQuestionRequest) (*dto.QuizQuestionResponse, error)
	UpdateQuestion(ctx context.Context, userId uuid.UUID, req *dto.UpdateQuizQuestionRequest) (*dto.QuizQuestionResponse, error)
	DeleteQuestion(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	ListFolders(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.QuizFolderResponse, error)
	CreateFolder(ctx context.Context, userId uuid.UUID, req *dto.CreateQuizFolderRequest) (*dto.QuizFolderResponse, error)
	UpdateFolder(ctx context.Context, userId uuid.UUID, req *dto.UpdateQuizFolderRequest) (*dto.QuizFolderResponse, error)
	DeleteFolder(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	GetAttempt(ctx context.Context, userId uuid.UUID, folderId uuid.UUID) (*dto.QuizAttemptResponse, error)
	SubmitAttempt(ctx context.Context, userId uuid.UUID, req *dto.SubmitQuizAttemptRequest) (*dto.QuizAttemptResponse, error)
}

type quizService struct {
	uowFactory       unitofwork.RepositoryFactory
	synchronizer     *aggregate.MembershipSynchronizer
	llmProvider      llm.LLMProvider
	registry         *registry.Registry
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewQuizService(
	uowFactory unitofwork.RepositoryFactory,
	synchronizer *aggregate.MembershipSynchronizer,
	llmProvider llm.LLMProvider,
	reg *registry.Registry,
	publisherService IPublisherService,
	log logger.ILogger,
) IQuizService {
	return &quizService{
		uowFactory:       uowFactory,
		synchronizer:     synchronizer,
		llmProvider:      llmProvider,
		registry:         reg,
		publisherService: publisherService,
		logger:           log,
	}
}

func validateCorrectIndex(options []string, correctIndex int) error {
	if correctIndex < 0 || correctIndex >= len(options) {
		return apperror.Validation("correct_index is out of range")
	}
	return nil
}

func (s *quizService) publishChanged(ctx context.Context, userId, notebookId uuid.UUID) {
	s.publisherService.Publish(ctx, events.New(events.QuizzesChanged, userId, map[string]interface{}{
		"notebook_id": notebookId.String(),
	}))
}

// Questions

func (s *quizService) ListQuestions(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]dto.QuizQuestionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	questions, err := uow.QuizQuestionRepository().FindAll(ctx, ownedScope(userId, notebookId, specification.OrderBy{Field: "created_at", Desc: true})...)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.Id
	}
	folderIds, err := uow.FolderItemRepository(contract.QuizFolderItems).ParentIDsByChildren(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]dto.QuizQuestionResponse, 0, len(questions))
	for _, q := range questions {
		res = append(res, toQuizQuestionResponse(q, folderIds[q.Id]))
	}
	return res, nil
}

func (s *quizService) findQuestion(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.QuizQuestion, error) {
	question, err := uow.QuizQuestionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, apperror.NotFound("Quiz question not found")
	}
	return question, nil
}

func (s *quizService) CreateQuestion(ctx context.Context, userId uuid.UUID, req *dto.CreateQuizQuestionRequest) (*dto.QuizQuestionResponse, error) {
	if err := validateCorrectIndex(req.Options, req.CorrectIndex); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findNotebook(ctx, uow, userId, req.NotebookId, false); err != nil {
		return nil, err
	}
	folderIds, err := s.synchronizer.Validate(ctx, uow, aggregate.FoldersOfQuestion, aggregate.MembershipRequest{
		UserID:     userId,
		NotebookID: &req.NotebookId,
		Ids:        req.FolderIds,
	})
	if err != nil {
		return nil, err
	}

	question := &entity.QuizQuestion{
		UserId:       userId,
		NotebookId:   req.NotebookId,
		Question:     req.Question,
		Options:      req.Options,
		CorrectIndex: req.CorrectIndex,
		Hint:         req.Hint,
		Explaination: req.Explaination,
		Meta:         req.Meta,
		IsFavorite:   req.IsFavorite,
	}
	if err := uow.QuizQuestionRepository().Create(ctx, question); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if _, err := s.synchronizer.Replace(ctx, uow, aggregate.FoldersOfQuestion, aggregate.MembershipRequest{
		OwnerID:    question.Id,
		UserID:     userId,
		NotebookID: &question.NotebookId,
		Ids:        folderIds,
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, question.NotebookId)
	res := toQuizQuestionResponse(question, folderIds)
	return &res, nil
}

// UpdateQuestion moving a question to another notebook drops its folder
// membership unless new folder ids in that notebook are given.
func (s *quizService) UpdateQuestion(ctx context.Context, userId uuid.UUID, req *dto.UpdateQuizQuestionRequest) (*dto.QuizQuestionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	question, err := s.findQuestion(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	options := question.Options
	if len(req.Options) > 0 {
		options = req.Options
	}
	correctIndex := question.CorrectIndex
	if req.CorrectIndex != nil {
		correctIndex = *req.CorrectIndex
	}
	if err := validateCorrectIndex(options, correctIndex); err != nil {
		return nil, err
	}

	moved := false
	if req.NotebookId != nil && *req.NotebookId != question.NotebookId {
		if _, err := findNotebook(ctx, uow, userId, *req.NotebookId, false); err != nil {
			return nil, err
		}
		question.NotebookId = *req.NotebookId
		moved = true
	}

	var folderIds []uuid.UUID
	replaceFolders := req.FolderIds != nil || moved
	if replaceFolders {
		var requested []uuid.UUID
		if req.FolderIds != nil {
			requested = *req.FolderIds
		}
		folderIds, err = s.synchronizer.Validate(ctx, uow, aggregate.FoldersOfQuestion, aggregate.MembershipRequest{
			OwnerID:    question.Id,
			UserID:     userId,
			NotebookID: &question.NotebookId,
			Ids:        requested,
		})
		if err != nil {
			return nil, err
		}
	}

	if req.Question != nil {
		question.Question = *req.Question
	}
	question.Options = options
	question.CorrectIndex = correctIndex
	if req.Hint != nil {
		question.Hint = req.Hint
	}
	if req.Explaination != nil {
		question.Explaination = req.Explaination
	}
	if req.Meta != nil {
		question.Meta = req.Meta
	}
	if req.IsFavorite != nil {
		question.IsFavorite = *req.IsFavorite
	}
	if err := uow.QuizQuestionRepository().Update(ctx, question); err != nil {
		return nil, apperror.FromStorage(err)
	}

	if replaceFolders {
		if _, err := s.synchronizer.Replace(ctx, uow, aggregate.FoldersOfQuestion, aggregate.MembershipRequest{
			OwnerID:    question.Id,
			UserID:     userId,
			NotebookID: &question.NotebookId,
			Ids:        folderIds,
		}); err != nil {
			return nil, err
		}
	} else {
		folderIds, err = uow.FolderItemRepository(contract.QuizFolderItems).ParentIDs(ctx, question.Id)
		if err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, question.NotebookId)
	res := toQuizQuestionResponse(question, folderIds)
	return &res, nil
}

func (s *quizService) DeleteQuestion(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	question, err := s.findQuestion(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if _, err := aggregate.CascadeDelete(ctx, uow, "quiz_questions", []uuid.UUID{question.Id}); err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, question.NotebookId)
	return nil
}

// Folders

func (s *quizService) ListFolders(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.QuizFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folders, err := uow.QuizFolderRepository().FindAll(ctx, ownedScope(userId, notebookId, specification.OrderBy{Field: "created_at", Desc: true})...)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(folders))
	for i, f := range folders {
		ids[i] = f.Id
	}
	members, err := uow.FolderItemRepository(contract.QuizFolderItems).ChildIDsByParents(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.QuizFolderResponse, 0, len(folders))
	for _, f := range folders {
		res = append(res, toQuizFolderResponse(f, members[f.Id]))
	}
	return res, nil
}

func findQuizFolder(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID, lock bool) (*entity.QuizFolder, error) {
	specs := []specification.Specification{
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	}
	if lock {
		specs = append(specs, specification.ForUpdate{})
	}
	folder, err := uow.QuizFolderRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, apperror.NotFound("Quiz folder not found")
	}
	return folder, nil
}

func (s *quizService) CreateFolder(ctx context.Context, userId uuid.UUID, req *dto.CreateQuizFolderRequest) (*dto.QuizFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findNotebook(ctx, uow, userId, req.NotebookId, false); err != nil {
		return nil, err
	}
	questionIds, err := s.synchronizer.Validate(ctx, uow, aggregate.QuestionsOfFolder, aggregate.MembershipRequest{
		UserID:     userId,
		NotebookID: &req.NotebookId,
		Ids:        req.QuestionIds,
	})
	if err != nil {
		return nil, err
	}

	folder := &entity.QuizFolder{
		UserId:      userId,
		NotebookId:  req.NotebookId,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := uow.QuizFolderRepository().Create(ctx, folder); err != nil {
		return nil, folderNameError(err)
	}
	if _, err := s.synchronizer.Replace(ctx, uow, aggregate.QuestionsOfFolder, aggregate.MembershipRequest{
		OwnerID:    folder.Id,
		UserID:     userId,
		NotebookID: &folder.NotebookId,
		Ids:        questionIds,
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, folder.NotebookId)
	return toQuizFolderResponse(folder, questionIds), nil
}

func (s *quizService) UpdateFolder(ctx context.Context, userId uuid.UUID, req *dto.UpdateQuizFolderRequest) (*dto.QuizFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	folder, err := findQuizFolder(ctx, uow, userId, req.Id, true)
	if err != nil {
		return nil, err
	}

	var questionIds []uuid.UUID
	if req.QuestionIds != nil {
		questionIds, err = s.synchronizer.Validate(ctx, uow, aggregate.QuestionsOfFolder, aggregate.MembershipRequest{
			OwnerID:    folder.Id,
			UserID:     userId,
			NotebookID: &folder.NotebookId,
			Ids:        *req.QuestionIds,
		})
		if err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	if req.Description != nil {
		folder.Description = req.Description
	}
	if err := uow.QuizFolderRepository().Update(ctx, folder); err != nil {
		return nil, folderNameError(err)
	}

	if req.QuestionIds != nil {
		if _, err := s.synchronizer.Replace(ctx, uow, aggregate.QuestionsOfFolder, aggregate.MembershipRequest{
			OwnerID:    folder.Id,
			UserID:     userId,
			NotebookID: &folder.NotebookId,
			Ids:        questionIds,
		}); err != nil {
			return nil, err
		}
	} else {
		questionIds, err = uow.FolderItemRepository(contract.QuizFolderItems).ChildIDs(ctx, folder.Id)
		if err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, folder.NotebookId)
	return toQuizFolderResponse(folder, questionIds), nil
}

// DeleteFolder removes the folder with its attempt; the questions stay.
func (s *quizService) DeleteFolder(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	folder, err := findQuizFolder(ctx, uow, userId, id, true)
	if err != nil {
		return err
	}
	if _, err := aggregate.CascadeDelete(ctx, uow, "quiz_folders", []uuid.UUID{folder.Id}); err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, folder.NotebookId)
	return nil
}

// Attempts

func (s *quizService) GetAttempt(ctx context.Context, userId uuid.UUID, folderId uuid.UUID) (*dto.QuizAttemptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := findQuizFolder(ctx, uow, userId, folderId, false)
	if err != nil {
		return nil, err
	}
	attempt, err := uow.QuizAttemptRepository().FindOne(ctx,
		specification.ByFolderID{FolderID: folder.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, apperror.NotFound("No attempt found for this quiz")
	}
	return toQuizAttemptResponse(attempt), nil
}

// SubmitAttempt replaces the folder's attempt. The feedback summary is
// generated before the transaction opens and its failure is not fatal.
func (s *quizService) SubmitAttempt(ctx context.Context, userId uuid.UUID, req *dto.SubmitQuizAttemptRequest) (*dto.QuizAttemptResponse, error) {
	readUow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := findQuizFolder(ctx, readUow, userId, req.FolderId, false)
	if err != nil {
		return nil, err
	}

	results := make([]entity.AttemptResult, len(req.Results))
	correct := 0
	var wrongIds []uuid.UUID
	for i, r := range req.Results {
		results[i] = entity.AttemptResult{
			QuestionId:     r.QuestionId,
			SelectedAnswer: r.SelectedAnswer,
			IsCorrect:      r.IsCorrect,
		}
		if r.IsCorrect {
			correct++
		} else {
			wrongIds = append(wrongIds, r.QuestionId)
		}
	}

	var summary *string
	if len(results) > 0 {
		model, ok, err := s.summaryModel(req.ModelKey)
		if err != nil {
			return nil, err
		}
		if ok {
			text, err := s.generateSummary(ctx, readUow, userId, folder, len(results), correct, wrongIds, model)
			if err != nil {
				s.logger.Warn(quizModuleName, "Failed to generate quiz summary", map[string]interface{}{
					"folder_id": folder.Id.String(),
					"error":     err.Error(),
				})
			} else {
				summary = &text
			}
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findQuizFolder(ctx, uow, userId, folder.Id, true); err != nil {
		return nil, err
	}
	repo := uow.QuizAttemptRepository()
	attempt, err := repo.FindOne(ctx, specification.ByFolderID{FolderID: folder.Id}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		attempt = &entity.QuizAttempt{UserId: userId, FolderId: folder.Id}
	}
	attempt.Results = results
	attempt.TotalQuestions = len(results)
	attempt.CorrectCount = correct
	attempt.Summary = summary

	if attempt.Id == uuid.Nil {
		err = repo.Create(ctx, attempt)
	} else {
		err = repo.Update(ctx, attempt)
	}
	if err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.QuizAttemptSubmitted, userId, map[string]interface{}{
		"folder_id":     folder.Id.String(),
		"notebook_id":   folder.NotebookId.String(),
		"correct_count": correct,
		"total":         len(results),
	}))
	return toQuizAttemptResponse(attempt), nil
}

// summaryModel resolves the feedback model. A blank key with no configured
// default skips the summary instead of failing the submission.
func (s *quizService) summaryModel(modelKey string) (registry.ModelInfo, bool, error) {
	info, err := s.registry.Resolve(modelKey, featureQuizSummary)
	if err == nil {
		return info, true, nil
	}
	if errors.Is(err, registry.ErrMissingModelKey) {
		return registry.ModelInfo{}, false, nil
	}
	return registry.ModelInfo{}, false, apperror.Validation(err.Error())
}

func (s *quizService) generateSummary(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	folder *entity.QuizFolder,
	total, correct int,
	wrongIds []uuid.UUID,
	model registry.ModelInfo,
) (string, error) {
	var wrong []*entity.QuizQuestion
	if len(wrongIds) > 0 {
		var err error
		wrong, err = uow.QuizQuestionRepository().FindAll(ctx,
			specification.ByIDs{IDs: wrongIds},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return "", err
		}
	}

	text, err := s.llmProvider.Chat(ctx, []llm.Message{
		llm.System(summarySystemPrompt),
		llm.User(buildSummaryPrompt(folder.Name, total, correct, wrong)),
	}, model.Options(summaryTemperature)...)
	if errors.Is(err, llm.ErrEmptyResponse) {
		return summaryFallback, nil
	}
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return summaryFallback, nil
	}
	return text, nil
}

func buildSummaryPrompt(folderName string, total, correct int, wrong []*entity.QuizQuestion) string {
	accuracy := 0
	if total > 0 {
		accuracy = int(math.Round(float64(correct) / float64(total) * 100))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "测验名称: %s\n", folderName)
	fmt.Fprintf(&b, "答题情况: %d/%d (%d%%)\n\n", correct, total, accuracy)
	if len(wrong) == 0 {
		b.WriteString("恭喜你全部答对！\n")
	} else {
		b.WriteString("错误的题目:\n")
		for i, q := range wrong {
			if i == summaryWrongQuestionCap {
				break
			}
			answer := "N/A"
			if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
				answer = q.Options[q.CorrectIndex]
			}
			fmt.Fprintf(&b, "- 题目: %s\n  正确答案: %s\n", q.Question, answer)
		}
	}
	b.WriteString("\n请根据以上信息提供个性化反馈")
	return b.String()
}
