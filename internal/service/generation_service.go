package service

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/iZhuoxx/AI-web/pkg/ai/structured"
	"github.com/iZhuoxx/AI-web/pkg/events"
	"github.com/iZhuoxx/AI-web/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	featureFlashcards     = "flashcards"
	featureQuiz           = "quiz"
	featureMindMap        = "mindmap"
	generationTemperature = 0.4
	generationModuleName  = "GenerationService"

	flashcardsSystemPrompt = "你是一位学习助手。请根据检索到的资料内容生成高质量的闪卡，每张闪卡包含一个简洁的问题和准确的答案。只使用资料中的信息，不要编造。"
	quizSystemPrompt       = "你是一位出题老师。请根据检索到的资料内容生成单项选择题，每题提供 2 到 6 个选项、正确选项的下标（从 0 开始）、一个提示和一段解析。只使用资料中的信息，不要编造。"
	mindMapSystemPrompt    = "你是一位知识整理助手。请根据检索到的资料内容生成一张层级清晰的思维导图，根节点是主题，子节点是要点，层级不超过四层。只使用资料中的信息，不要编造。"
)

type IGenerationService interface {
	GenerateFlashcards(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.GeneratedFlashcardsResponse, error)
	GenerateQuiz(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.GeneratedQuizResponse, error)
	GenerateMindMap(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.MindMapResponse, error)
}

type generationService struct {
	uowFactory       unitofwork.RepositoryFactory
	synchronizer     *aggregate.MembershipSynchronizer
	llmProvider      llm.LLMProvider
	registry         *registry.Registry
	publisherService IPublisherService
	logger           logger.ILogger
	tracer           trace.Tracer
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	synchronizer *aggregate.MembershipSynchronizer,
	llmProvider llm.LLMProvider,
	reg *registry.Registry,
	publisherService IPublisherService,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		uowFactory:       uowFactory,
		synchronizer:     synchronizer,
		llmProvider:      llmProvider,
		registry:         reg,
		publisherService: publisherService,
		logger:           log,
		tracer:           otel.Tracer("study-generation"),
	}
}

// generationSource is what a generation call reads from.
type generationSource struct {
	notebook      *entity.Notebook
	vectorStoreId string
	filenames     []string
	model         registry.ModelInfo
	folder        *folderTarget
}

type folderTarget struct {
	id   *uuid.UUID
	name string
}

// prepare checks the request against the notebook before the model is called.
func (s *generationService) prepare(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest, feature string, folderRepo func(unitofwork.UnitOfWork) folderFinder) (*generationSource, error) {
	model, err := resolveModel(s.registry, req.ModelKey, feature)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notebook, err := findNotebook(ctx, uow, userId, req.NotebookId, false)
	if err != nil {
		return nil, err
	}

	ids := aggregate.Dedupe(req.AttachmentIds)
	specs := []specification.Specification{
		specification.ByNotebookID{NotebookID: notebook.Id},
		specification.LinkedToOpenAI{},
		specification.OrderBy{Field: "created_at"},
	}
	if len(ids) > 0 {
		specs = append(specs, specification.ByIDs{IDs: ids})
	}
	attachments, err := uow.AttachmentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 && len(attachments) != len(ids) {
		found := make(map[uuid.UUID]bool, len(attachments))
		for _, a := range attachments {
			found[a.Id] = true
		}
		var invalid []uuid.UUID
		for _, id := range ids {
			if !found[id] {
				invalid = append(invalid, id)
			}
		}
		return nil, apperror.ValidationIds("Attachments must belong to the notebook and be linked to OpenAI", invalid)
	}
	if len(attachments) == 0 {
		return nil, apperror.Validation("Notebook has no attachments linked to OpenAI")
	}
	if notebook.OpenaiVectorStoreId == nil || *notebook.OpenaiVectorStoreId == "" {
		return nil, apperror.Validation("Notebook does not have a vector store")
	}

	src := &generationSource{
		notebook:      notebook,
		vectorStoreId: *notebook.OpenaiVectorStoreId,
		model:         model,
	}
	for _, a := range attachments {
		src.filenames = append(src.filenames, a.Filename)
	}

	if folderRepo != nil {
		switch {
		case req.FolderId != nil:
			if err := folderRepo(uow).exists(ctx, userId, notebook.Id, *req.FolderId); err != nil {
				return nil, err
			}
			src.folder = &folderTarget{id: req.FolderId}
		case strings.TrimSpace(req.FolderName) != "":
			src.folder = &folderTarget{name: strings.TrimSpace(req.FolderName)}
		}
	}
	return src, nil
}

// folderFinder checks a target folder for generated items.
type folderFinder interface {
	exists(ctx context.Context, userId, notebookId, folderId uuid.UUID) error
}

type flashcardFolderFinder struct{ uow unitofwork.UnitOfWork }

func (f flashcardFolderFinder) exists(ctx context.Context, userId, notebookId, folderId uuid.UUID) error {
	folder, err := f.uow.FlashcardFolderRepository().FindOne(ctx,
		specification.ByID{ID: folderId},
		specification.UserOwnedBy{UserID: userId},
		specification.ByNotebookID{NotebookID: notebookId},
	)
	if err != nil {
		return err
	}
	if folder == nil {
		return apperror.NotFound("Flashcard folder not found")
	}
	return nil
}

type quizFolderFinder struct{ uow unitofwork.UnitOfWork }

func (f quizFolderFinder) exists(ctx context.Context, userId, notebookId, folderId uuid.UUID) error {
	folder, err := f.uow.QuizFolderRepository().FindOne(ctx,
		specification.ByID{ID: folderId},
		specification.UserOwnedBy{UserID: userId},
		specification.ByNotebookID{NotebookID: notebookId},
	)
	if err != nil {
		return err
	}
	if folder == nil {
		return apperror.NotFound("Quiz folder not found")
	}
	return nil
}

func buildGenerationPrompt(what string, count int, focus string, filenames []string) string {
	var b strings.Builder
	if count > 0 {
		fmt.Fprintf(&b, "请生成 %d 个%s。\n", count, what)
	} else {
		fmt.Fprintf(&b, "请生成%s。\n", what)
	}
	fmt.Fprintf(&b, "参考资料: %s\n", strings.Join(filenames, ", "))
	if focus = strings.TrimSpace(focus); focus != "" {
		fmt.Fprintf(&b, "重点关注: %s\n", focus)
	}
	b.WriteString("请严格按照给定的 JSON 结构输出。")
	return b.String()
}

func sourceMeta(src *generationSource, focus string) *entity.SourceMeta {
	return &entity.SourceMeta{
		Sources:  src.filenames,
		Focus:    strings.TrimSpace(focus),
		ModelKey: src.model.Key,
	}
}

// complete calls the model inside a span and maps failures to Upstream.
func (s *generationService) complete(ctx context.Context, kind string, src *generationSource, system, prompt, schemaName string, schema map[string]interface{}) (string, error) {
	ctx, span := s.tracer.Start(ctx, "generate."+kind, trace.WithAttributes(
		attribute.String("notebook.id", src.notebook.Id.String()),
		attribute.String("model", src.model.Model),
	))
	defer span.End()

	opts := append(src.model.Options(generationTemperature),
		llm.WithSchema(schemaName, schema),
		llm.WithFileSearch(src.vectorStoreId),
	)
	raw, err := s.llmProvider.Chat(ctx, []llm.Message{llm.System(system), llm.User(prompt)}, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(generationModuleName, "Model call failed", map[string]interface{}{
			"kind":        kind,
			"notebook_id": src.notebook.Id.String(),
			"error":       err.Error(),
		})
		return "", apperror.Upstream("Failed to generate "+kind, err)
	}
	return raw, nil
}

func coerceError(kind string, err error) error {
	if errors.Is(err, structured.ErrEmptyResult) {
		return apperror.Upstream("Model returned no usable "+kind, err)
	}
	return apperror.Upstream("Model returned malformed "+kind, err)
}

func (s *generationService) GenerateFlashcards(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.GeneratedFlashcardsResponse, error) {
	src, err := s.prepare(ctx, userId, req, featureFlashcards, func(uow unitofwork.UnitOfWork) folderFinder {
		return flashcardFolderFinder{uow: uow}
	})
	if err != nil {
		return nil, err
	}
	count := structured.DefaultCount
	if req.Count != nil {
		count = structured.ClampCount(*req.Count)
	}

	raw, err := s.complete(ctx, "flashcards", src, flashcardsSystemPrompt,
		buildGenerationPrompt("闪卡", count, req.Focus, src.filenames),
		"flashcards", structured.FlashcardsSchema)
	if err != nil {
		return nil, err
	}
	drafts, err := structured.CoerceFlashcards(raw, count)
	if err != nil {
		return nil, coerceError("flashcards", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	meta := sourceMeta(src, req.Focus)
	cards := make([]*entity.Flashcard, 0, len(drafts))
	cardIds := make([]uuid.UUID, 0, len(drafts))
	for _, d := range drafts {
		card := &entity.Flashcard{
			UserId:     userId,
			NotebookId: src.notebook.Id,
			Question:   d.Question,
			Answer:     d.Answer,
			Meta:       meta,
		}
		if err := uow.FlashcardRepository().Create(ctx, card); err != nil {
			return nil, apperror.FromStorage(err)
		}
		cards = append(cards, card)
		cardIds = append(cardIds, card.Id)
	}

	var folder *entity.FlashcardFolder
	var members []uuid.UUID
	if src.folder != nil {
		if src.folder.id != nil {
			folder, err = uow.FlashcardFolderRepository().FindOne(ctx, specification.ByID{ID: *src.folder.id}, specification.ForUpdate{})
			if err != nil {
				return nil, err
			}
			if folder == nil {
				return nil, apperror.NotFound("Flashcard folder not found")
			}
			members, err = uow.FolderItemRepository(contract.FlashcardFolderItems).ChildIDs(ctx, folder.Id)
			if err != nil {
				return nil, err
			}
		} else {
			folder = &entity.FlashcardFolder{UserId: userId, NotebookId: src.notebook.Id, Name: src.folder.name}
			if err := uow.FlashcardFolderRepository().Create(ctx, folder); err != nil {
				return nil, folderNameError(err)
			}
		}
		members, err = s.synchronizer.Replace(ctx, uow, aggregate.FlashcardsOfFolder, aggregate.MembershipRequest{
			OwnerID:    folder.Id,
			UserID:     userId,
			NotebookID: &src.notebook.Id,
			Ids:        append(members, cardIds...),
		})
		if err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	data := map[string]interface{}{
		"notebook_id": src.notebook.Id.String(),
		"count":       len(cards),
	}
	res := &dto.GeneratedFlashcardsResponse{Flashcards: make([]dto.FlashcardResponse, 0, len(cards))}
	var folderIds []uuid.UUID
	if folder != nil {
		folderIds = []uuid.UUID{folder.Id}
		res.Folder = toFlashcardFolderResponse(folder, members)
		data["folder_id"] = folder.Id.String()
	}
	for _, c := range cards {
		res.Flashcards = append(res.Flashcards, toFlashcardResponse(c, folderIds))
	}
	s.publisherService.Publish(ctx, events.New(events.FlashcardsGenerated, userId, data))
	return res, nil
}

func (s *generationService) GenerateQuiz(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.GeneratedQuizResponse, error) {
	src, err := s.prepare(ctx, userId, req, featureQuiz, func(uow unitofwork.UnitOfWork) folderFinder {
		return quizFolderFinder{uow: uow}
	})
	if err != nil {
		return nil, err
	}
	count := structured.DefaultCount
	if req.Count != nil {
		count = structured.ClampCount(*req.Count)
	}

	raw, err := s.complete(ctx, "quiz", src, quizSystemPrompt,
		buildGenerationPrompt("选择题", count, req.Focus, src.filenames),
		"quiz", structured.QuizSchema)
	if err != nil {
		return nil, err
	}
	drafts, err := structured.CoerceQuiz(raw, count)
	if err != nil {
		return nil, coerceError("quiz", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	meta := sourceMeta(src, req.Focus)
	questions := make([]*entity.QuizQuestion, 0, len(drafts))
	questionIds := make([]uuid.UUID, 0, len(drafts))
	for _, d := range drafts {
		question := &entity.QuizQuestion{
			UserId:       userId,
			NotebookId:   src.notebook.Id,
			Question:     d.Question,
			Options:      d.Options,
			CorrectIndex: d.CorrectIndex,
			Hint:         d.Hint,
			Explaination: d.Explanation,
			Meta:         meta,
		}
		if err := uow.QuizQuestionRepository().Create(ctx, question); err != nil {
			return nil, apperror.FromStorage(err)
		}
		questions = append(questions, question)
		questionIds = append(questionIds, question.Id)
	}

	var folder *entity.QuizFolder
	var members []uuid.UUID
	if src.folder != nil {
		if src.folder.id != nil {
			folder, err = uow.QuizFolderRepository().FindOne(ctx, specification.ByID{ID: *src.folder.id}, specification.ForUpdate{})
			if err != nil {
				return nil, err
			}
			if folder == nil {
				return nil, apperror.NotFound("Quiz folder not found")
			}
			members, err = uow.FolderItemRepository(contract.QuizFolderItems).ChildIDs(ctx, folder.Id)
			if err != nil {
				return nil, err
			}
		} else {
			folder = &entity.QuizFolder{UserId: userId, NotebookId: src.notebook.Id, Name: src.folder.name}
			if err := uow.QuizFolderRepository().Create(ctx, folder); err != nil {
				return nil, folderNameError(err)
			}
		}
		members, err = s.synchronizer.Replace(ctx, uow, aggregate.QuestionsOfFolder, aggregate.MembershipRequest{
			OwnerID:    folder.Id,
			UserID:     userId,
			NotebookID: &src.notebook.Id,
			Ids:        append(members, questionIds...),
		})
		if err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	data := map[string]interface{}{
		"notebook_id": src.notebook.Id.String(),
		"count":       len(questions),
	}
	res := &dto.GeneratedQuizResponse{Questions: make([]dto.QuizQuestionResponse, 0, len(questions))}
	var folderIds []uuid.UUID
	if folder != nil {
		folderIds = []uuid.UUID{folder.Id}
		res.Folder = toQuizFolderResponse(folder, members)
		data["folder_id"] = folder.Id.String()
	}
	for _, q := range questions {
		res.Questions = append(res.Questions, toQuizQuestionResponse(q, folderIds))
	}
	s.publisherService.Publish(ctx, events.New(events.QuizzesGenerated, userId, data))
	return res, nil
}

// GenerateMindMap titles the map after folder_name when given, otherwise after the model's title.
func (s *generationService) GenerateMindMap(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequest) (*dto.MindMapResponse, error) {
	src, err := s.prepare(ctx, userId, req, featureMindMap, nil)
	if err != nil {
		return nil, err
	}

	raw, err := s.complete(ctx, "mindmap", src, mindMapSystemPrompt,
		buildGenerationPrompt("思维导图", 0, req.Focus, src.filenames),
		"mindmap", structured.MindMapSchema)
	if err != nil {
		return nil, err
	}
	title, data, err := structured.CoerceMindMap(raw)
	if err != nil {
		return nil, coerceError("mind map", err)
	}
	if name := strings.TrimSpace(req.FolderName); name != "" {
		title = name
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	mindMap := &entity.MindMap{
		Id:         uuid.New(),
		UserId:     userId,
		NotebookId: src.notebook.Id,
		Title:      truncateRunes(title, 255),
	}
	mindMap.Data = data.Normalize(mindMap.Id.String(), mindMap.Title)
	if err := uow.MindMapRepository().Create(ctx, mindMap); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.MindMapGenerated, userId, map[string]interface{}{
		"notebook_id": src.notebook.Id.String(),
		"mindmap_id":  mindMap.Id.String(),
	}))
	return toMindMapResponse(mindMap), nil
}
