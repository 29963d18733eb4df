package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iZhuoxx/AI-web/internal/aggregate"
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/internal/repository/memory"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/pkg/events"
	"github.com/iZhuoxx/AI-web/pkg/llm"
	"github.com/iZhuoxx/AI-web/pkg/storage"

	"github.com/google/uuid"
)

const defaultUploadName = "upload.bin"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename keeps object keys and stored names to a portable charset.
func SanitizeFilename(filename string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(filename, "_")
	if cleaned == "" {
		return defaultUploadName
	}
	return cleaned
}

func attachmentObjectKey(userId, notebookId uuid.UUID, filename string) string {
	return fmt.Sprintf("users/%s/notebooks/%s/%s-%s", userId, notebookId, uuid.New(), filename)
}

type IAttachmentService interface {
	PresignUpload(ctx context.Context, userId uuid.UUID, req *dto.PresignUploadRequest) (*dto.PresignUploadResponse, error)
	DownloadURL(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DownloadURLResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateAttachmentRequest) (*dto.UpdateAttachmentResponse, error)
	LinkOpenAI(ctx context.Context, userId uuid.UUID, req *dto.LinkOpenAIRequest) (*dto.LinkOpenAIResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type attachmentService struct {
	uowFactory       unitofwork.RepositoryFactory
	storage          storage.ObjectStorage
	vectorStores     llm.VectorStores
	urlCache         *memory.DownloadURLCache
	presignTTL       time.Duration
	publisherService IPublisherService
	logger           logger.ILogger
	now              func() time.Time
}

func NewAttachmentService(
	uowFactory unitofwork.RepositoryFactory,
	objectStorage storage.ObjectStorage,
	vectorStores llm.VectorStores,
	urlCache *memory.DownloadURLCache,
	presignTTL time.Duration,
	publisherService IPublisherService,
	log logger.ILogger,
) IAttachmentService {
	return &attachmentService{
		uowFactory:       uowFactory,
		storage:          objectStorage,
		vectorStores:     vectorStores,
		urlCache:         urlCache,
		presignTTL:       presignTTL,
		publisherService: publisherService,
		logger:           log,
		now:              time.Now,
	}
}

func findAttachment(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID, lock bool) (*entity.Attachment, error) {
	specs := []specification.Specification{
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	}
	if lock {
		specs = append(specs, specification.ForUpdate{})
	}
	attachment, err := uow.AttachmentRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, apperror.NotFound("Attachment not found")
	}
	return attachment, nil
}

func (s *attachmentService) PresignUpload(ctx context.Context, userId uuid.UUID, req *dto.PresignUploadRequest) (*dto.PresignUploadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	notebook, err := findNotebook(ctx, uow, userId, req.NotebookId, false)
	if err != nil {
		return nil, err
	}

	filename := SanitizeFilename(req.Filename)
	key := attachmentObjectKey(userId, notebook.Id, filename)
	contentType := ""
	if req.ContentType != nil {
		contentType = *req.ContentType
	}
	upload, err := s.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, apperror.Upstream("Failed to presign upload", err)
	}

	attachment := &entity.Attachment{
		NotebookId:          notebook.Id,
		UserId:              userId,
		Filename:            filename,
		Mime:                req.ContentType,
		Bytes:               req.Bytes,
		S3ObjectKey:         &key,
		EnableFileSearch:    true,
		TranscriptionStatus: entity.TranscriptionStatusNone,
	}
	if err := uow.AttachmentRepository().Create(ctx, attachment); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.AttachmentCreated, userId, map[string]interface{}{
		"attachment_id": attachment.Id.String(),
		"notebook_id":   notebook.Id.String(),
	}))
	return &dto.PresignUploadResponse{
		AttachmentId: attachment.Id,
		S3ObjectKey:  key,
		Upload:       *upload,
	}, nil
}

// DownloadURL reuses a cached presigned URL while it still has enough life left.
func (s *attachmentService) DownloadURL(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DownloadURLResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	attachment, err := findAttachment(ctx, uow, userId, id, false)
	if err != nil {
		return nil, err
	}
	if attachment.S3ObjectKey == nil || *attachment.S3ObjectKey == "" {
		return nil, apperror.Validation("Attachment does not have an S3 object key")
	}

	now := s.now()
	if cached, ok := s.urlCache.Get(attachment.Id); ok {
		return &dto.DownloadURLResponse{
			URL:       cached.URL,
			ExpiresIn: int(cached.ExpiresAt.Sub(now).Seconds()),
		}, nil
	}

	url, err := s.storage.PresignDownload(ctx, *attachment.S3ObjectKey, s.presignTTL)
	if err != nil {
		return nil, apperror.Upstream("Failed to presign download", err)
	}
	s.urlCache.Save(attachment.Id, url, now.Add(s.presignTTL))
	return &dto.DownloadURLResponse{
		URL:       url,
		ExpiresIn: int(s.presignTTL.Seconds()),
	}, nil
}

func (s *attachmentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateAttachmentRequest) (*dto.UpdateAttachmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	attachment, err := findAttachment(ctx, uow, userId, req.Id, true)
	if err != nil {
		return nil, err
	}
	if req.Filename != nil {
		attachment.Filename = SanitizeFilename(*req.Filename)
	}
	if err := uow.AttachmentRepository().Update(ctx, attachment); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.AttachmentUpdated, userId, map[string]interface{}{
		"attachment_id": attachment.Id.String(),
		"notebook_id":   attachment.NotebookId.String(),
	}))
	return &dto.UpdateAttachmentResponse{Id: attachment.Id, Filename: attachment.Filename}, nil
}

// LinkOpenAI adds an uploaded provider file to the notebook's vector store,
// creating the store on first use.
func (s *attachmentService) LinkOpenAI(ctx context.Context, userId uuid.UUID, req *dto.LinkOpenAIRequest) (*dto.LinkOpenAIResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	attachment, err := findAttachment(ctx, uow, userId, req.Id, true)
	if err != nil {
		return nil, err
	}
	notebook, err := findNotebook(ctx, uow, userId, attachment.NotebookId, true)
	if err != nil {
		return nil, err
	}

	if notebook.OpenaiVectorStoreId == nil || *notebook.OpenaiVectorStoreId == "" {
		storeId, err := s.vectorStores.CreateVectorStore(ctx, "Notebook-"+notebook.Id.String())
		if err != nil {
			return nil, apperror.Upstream("Failed to create vector store", err)
		}
		notebook.OpenaiVectorStoreId = &storeId
		if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
			return nil, apperror.FromStorage(err)
		}
	}

	if err := s.vectorStores.AddFile(ctx, *notebook.OpenaiVectorStoreId, req.OpenaiFileId); err != nil {
		return nil, apperror.Upstream("Failed to add file to vector store", err)
	}

	fileId := req.OpenaiFileId
	attachment.OpenaiFileId = &fileId
	if err := uow.AttachmentRepository().Update(ctx, attachment); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.AttachmentUpdated, userId, map[string]interface{}{
		"attachment_id":   attachment.Id.String(),
		"notebook_id":     notebook.Id.String(),
		"vector_store_id": *notebook.OpenaiVectorStoreId,
	}))
	return &dto.LinkOpenAIResponse{
		Id:                  attachment.Id,
		OpenaiFileId:        fileId,
		OpenaiVectorStoreId: notebook.OpenaiVectorStoreId,
	}, nil
}

// Delete removes the stored object and the provider file before the row, so a
// failed cleanup leaves the attachment in place to retry.
func (s *attachmentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	attachment, err := findAttachment(ctx, uow, userId, id, true)
	if err != nil {
		return err
	}
	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: attachment.NotebookId})
	if err != nil {
		return err
	}

	if attachment.S3ObjectKey != nil && *attachment.S3ObjectKey != "" {
		if err := s.storage.Delete(ctx, *attachment.S3ObjectKey); err != nil {
			return apperror.Upstream("Failed to delete attachment object", err)
		}
	}
	if attachment.OpenaiFileId != nil && *attachment.OpenaiFileId != "" {
		fileId := *attachment.OpenaiFileId
		if notebook != nil && notebook.OpenaiVectorStoreId != nil && *notebook.OpenaiVectorStoreId != "" {
			if err := s.vectorStores.RemoveFile(ctx, *notebook.OpenaiVectorStoreId, fileId); err != nil {
				return apperror.Upstream("Failed to delete vector store file", err)
			}
		}
		if err := s.vectorStores.DeleteFile(ctx, fileId); err != nil {
			return apperror.Upstream("Failed to delete OpenAI file", err)
		}
	}

	if _, err := aggregate.CascadeDelete(ctx, uow, "attachments", []uuid.UUID{attachment.Id}); err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}
	s.urlCache.Delete(attachment.Id)

	s.publisherService.Publish(ctx, events.New(events.AttachmentDeleted, userId, map[string]interface{}{
		"attachment_id": attachment.Id.String(),
		"notebook_id":   attachment.NotebookId.String(),
	}))
	return nil
}
