package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/iZhuoxx/AI-web/internal/aggregate"
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/memory"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/pkg/ai/registry"
	"github.com/iZhuoxx/AI-web/pkg/events"
	"github.com/iZhuoxx/AI-web/pkg/llm"
	"github.com/iZhuoxx/AI-web/pkg/storage"

	"github.com/google/uuid"
)

const (
	maxTitleRunes      = 15
	titleSystemPrompt  = "你是一名笔记标题助手。请为给定内容生成一个简短且清晰的标题，总长度不超过15个字符（中英文均按单字符计数），能够准确概括核心含义。标题不要使用引号、句号或多余的标点，并保持与内容语言一致。"
	titleMaxOutput     = 80
	titleTemperature   = 0.3
	featureTitle       = "title"
	notebookModuleName = "NotebookService"
)

type INotebookService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.NotebookResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	GenerateTitle(ctx context.Context, req *dto.GenerateTitleRequest) (*dto.GenerateTitleResponse, error)
}

type notebookService struct {
	uowFactory       unitofwork.RepositoryFactory
	coordinator      *aggregate.NotebookCoordinator
	synchronizer     *aggregate.MembershipSynchronizer
	storage          storage.ObjectStorage
	urlCache         *memory.DownloadURLCache
	llmProvider      llm.LLMProvider
	registry         *registry.Registry
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	coordinator *aggregate.NotebookCoordinator,
	synchronizer *aggregate.MembershipSynchronizer,
	objectStorage storage.ObjectStorage,
	urlCache *memory.DownloadURLCache,
	llmProvider llm.LLMProvider,
	reg *registry.Registry,
	publisherService IPublisherService,
	log logger.ILogger,
) INotebookService {
	return &notebookService{
		uowFactory:       uowFactory,
		coordinator:      coordinator,
		synchronizer:     synchronizer,
		storage:          objectStorage,
		urlCache:         urlCache,
		llmProvider:      llmProvider,
		registry:         reg,
		publisherService: publisherService,
		logger:           log,
	}
}

// loadNotebooks assembles the full representation of each notebook, keeping
// the order of the input slice.
func loadNotebooks(ctx context.Context, uow unitofwork.UnitOfWork, notebooks []*entity.Notebook) ([]*dto.NotebookResponse, error) {
	result := make([]*dto.NotebookResponse, 0, len(notebooks))
	if len(notebooks) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(notebooks))
	for i, nb := range notebooks {
		ids[i] = nb.Id
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookIDs{NotebookIDs: ids},
		specification.OrderBySeq{},
	)
	if err != nil {
		return nil, err
	}
	notesByNotebook := make(map[uuid.UUID][]*entity.Note)
	for _, n := range notes {
		notesByNotebook[n.NotebookId] = append(notesByNotebook[n.NotebookId], n)
	}

	attachments, err := uow.AttachmentRepository().FindAll(ctx,
		specification.ByNotebookIDs{NotebookIDs: ids},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	attachmentsByNotebook := make(map[uuid.UUID][]*entity.Attachment)
	for _, a := range attachments {
		attachmentsByNotebook[a.NotebookId] = append(attachmentsByNotebook[a.NotebookId], a)
	}

	folderIdsByNotebook, err := uow.FolderItemRepository(contract.NotebookFolderItems).ParentIDsByChildren(ctx, ids)
	if err != nil {
		return nil, err
	}
	var folderIds []uuid.UUID
	for _, fids := range folderIdsByNotebook {
		folderIds = append(folderIds, fids...)
	}
	foldersById := make(map[uuid.UUID]*entity.NotebookFolder)
	if len(folderIds) > 0 {
		folders, err := uow.NotebookFolderRepository().FindAll(ctx, specification.ByIDs{IDs: aggregate.Dedupe(folderIds)})
		if err != nil {
			return nil, err
		}
		for _, f := range folders {
			foldersById[f.Id] = f
		}
	}

	for _, nb := range notebooks {
		var folders []*entity.NotebookFolder
		for _, fid := range folderIdsByNotebook[nb.Id] {
			if f, ok := foldersById[fid]; ok {
				folders = append(folders, f)
			}
		}
		result = append(result, toNotebookResponse(nb, notesByNotebook[nb.Id], attachmentsByNotebook[nb.Id], folders))
	}
	return result, nil
}

func findNotebook(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID, lock bool) (*entity.Notebook, error) {
	specs := []specification.Specification{
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	}
	if lock {
		specs = append(specs, specification.ForUpdate{})
	}
	notebook, err := uow.NotebookRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.NotFound("Notebook not found")
	}
	return notebook, nil
}

func (s *notebookService) List(ctx context.Context, userId uuid.UUID) ([]*dto.NotebookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return loadNotebooks(ctx, uow, notebooks)
}

func (s *notebookService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	notebook, err := findNotebook(ctx, uow, userId, id, false)
	if err != nil {
		return nil, err
	}
	res, err := loadNotebooks(ctx, uow, []*entity.Notebook{notebook})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func toDesiredNotes(inputs []dto.NoteInput) []aggregate.DesiredNote {
	desired := make([]aggregate.DesiredNote, len(inputs))
	for i, in := range inputs {
		desired[i] = aggregate.DesiredNote{Id: in.Id, Title: in.Title, Content: in.Content}
	}
	return desired
}

// Create trusts the client seqs, so they are validated before anything is written.
func (s *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error) {
	if err := aggregate.ValidateNotes(toDesiredNotes(req.Notes)); err != nil {
		return nil, err
	}
	clientSeqs := make([]*int, len(req.Notes))
	for i, n := range req.Notes {
		clientSeqs[i] = n.Seq
	}
	seqs := aggregate.EffectiveSeqs(clientSeqs)
	if err := aggregate.ValidateClientSeqs(seqs); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	folderIds, err := s.synchronizer.Validate(ctx, uow, aggregate.FoldersOfNotebook, aggregate.MembershipRequest{
		UserID: userId,
		Ids:    req.FolderIds,
	})
	if err != nil {
		return nil, err
	}

	notebook := &entity.Notebook{
		UserId:               userId,
		Title:                req.Title,
		Summary:              req.Summary,
		Color:                req.Color,
		OpenaiVectorStoreId:  req.OpenaiVectorStoreId,
		VectorStoreExpiresAt: req.VectorStoreExpiresAt,
	}
	if req.IsArchived != nil {
		notebook.IsArchived = *req.IsArchived
	}
	if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
		return nil, apperror.FromStorage(err)
	}

	// Client ids are kept when free; a taken or repeated id gets a fresh one.
	var clientIds []uuid.UUID
	for _, in := range req.Notes {
		if in.Id != nil {
			clientIds = append(clientIds, *in.Id)
		}
	}
	taken := make(map[uuid.UUID]bool)
	if len(clientIds) > 0 {
		existing, err := uow.NoteRepository().FindAll(ctx, specification.ByIDs{IDs: clientIds})
		if err != nil {
			return nil, err
		}
		for _, n := range existing {
			taken[n.Id] = true
		}
	}

	for i, in := range req.Notes {
		note := &entity.Note{
			NotebookId: notebook.Id,
			Title:      in.Title,
			Content:    in.Content,
			Seq:        seqs[i],
		}
		if in.Id != nil && *in.Id != uuid.Nil && !taken[*in.Id] {
			note.Id = *in.Id
			taken[*in.Id] = true
		}
		if err := uow.NoteRepository().Create(ctx, note); err != nil {
			return nil, apperror.FromStorage(err)
		}
	}

	if len(folderIds) > 0 {
		if _, err := s.synchronizer.Replace(ctx, uow, aggregate.FoldersOfNotebook, aggregate.MembershipRequest{
			OwnerID: notebook.Id,
			UserID:  userId,
			Ids:     folderIds,
		}); err != nil {
			return nil, err
		}
	}

	res, err := loadNotebooks(ctx, uow, []*entity.Notebook{notebook})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.NotebookCreated, userId, map[string]interface{}{
		"notebook_id": notebook.Id.String(),
	}))
	return res[0], nil
}

func (s *notebookService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	notebook, err := findNotebook(ctx, uow, userId, req.Id, true)
	if err != nil {
		return nil, err
	}

	change := aggregate.NotebookChange{
		Title:                req.Title,
		Summary:              req.Summary,
		Color:                req.Color,
		OpenaiVectorStoreId:  req.OpenaiVectorStoreId,
		VectorStoreExpiresAt: req.VectorStoreExpiresAt,
		IsArchived:           req.IsArchived,
		FolderIds:            req.FolderIds,
	}
	if req.Notes != nil {
		desired := toDesiredNotes(*req.Notes)
		change.Notes = &desired
	}

	result, err := s.coordinator.Apply(ctx, uow, notebook, change)
	if err != nil {
		return nil, err
	}

	res, err := loadNotebooks(ctx, uow, []*entity.Notebook{result.Notebook})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.NotebookUpdated, userId, map[string]interface{}{
		"notebook_id": notebook.Id.String(),
		"note_count":  len(result.Notes),
	}))
	return res[0], nil
}

func (s *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	notebook, err := findNotebook(ctx, uow, userId, id, true)
	if err != nil {
		return err
	}
	attachments, err := uow.AttachmentRepository().FindAll(ctx, specification.ByNotebookID{NotebookID: notebook.Id})
	if err != nil {
		return err
	}

	report, err := aggregate.CascadeDelete(ctx, uow, "notebooks", []uuid.UUID{notebook.Id})
	if err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}

	s.removeObjects(ctx, attachments)
	s.logger.Info(notebookModuleName, "Notebook deleted", map[string]interface{}{
		"notebook_id": notebook.Id.String(),
		"rows":        report,
	})
	s.publisherService.Publish(ctx, events.New(events.NotebookDeleted, userId, map[string]interface{}{
		"notebook_id": notebook.Id.String(),
	}))
	return nil
}

// removeObjects deletes stored files of already deleted attachments. Failures
// only leave orphaned objects behind, so they are logged and skipped.
func (s *notebookService) removeObjects(ctx context.Context, attachments []*entity.Attachment) {
	for _, a := range attachments {
		s.urlCache.Delete(a.Id)
		if a.S3ObjectKey == nil || *a.S3ObjectKey == "" {
			continue
		}
		if err := s.storage.Delete(ctx, *a.S3ObjectKey); err != nil {
			s.logger.Warn(notebookModuleName, "Failed to delete attachment object", map[string]interface{}{
				"attachment_id": a.Id.String(),
				"key":           *a.S3ObjectKey,
				"error":         err.Error(),
			})
		}
	}
}

// resolveModel maps registry lookup failures to client errors.
func resolveModel(reg *registry.Registry, modelKey, feature string) (registry.ModelInfo, error) {
	info, err := reg.Resolve(modelKey, feature)
	if err != nil {
		return registry.ModelInfo{}, apperror.Validation(err.Error())
	}
	return info, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (s *notebookService) GenerateTitle(ctx context.Context, req *dto.GenerateTitleRequest) (*dto.GenerateTitleResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.Validation("Content is required")
	}

	info, err := resolveModel(s.registry, "", featureTitle)
	if err != nil {
		return nil, err
	}
	opts := append(info.Options(titleTemperature), llm.WithMaxOutputTokens(titleMaxOutput))

	raw, err := s.llmProvider.Chat(ctx, []llm.Message{
		llm.System(titleSystemPrompt),
		llm.User(content),
	}, opts...)
	if err != nil {
		return nil, apperror.Upstream("Title generation failed", err)
	}

	title := strings.TrimSpace(raw)
	if title == "" {
		return nil, apperror.Upstream("Title generation returned no text", nil)
	}
	return &dto.GenerateTitleResponse{Title: truncateRunes(title, maxTitleRunes)}, nil
}
