package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime"
	"path/filepath"
	"strings"

	"github.com/iZhuoxx/AI-web/internal/aggregate"
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/pkg/ai/registry"
	"github.com/iZhuoxx/AI-web/pkg/events"
	"github.com/iZhuoxx/AI-web/pkg/llm"

	"github.com/google/uuid"
)

const (
	MaxAudioBytes        = 250 << 20
	defaultAudioModel    = "gpt-4o-transcribe"
	defaultAudioFilename = "audio.wav"
	featureTranscription = "transcription"
	audioModuleName      = "AudioService"
)

type IAudioService interface {
	Transcribe(ctx context.Context, userId uuid.UUID, req *dto.AudioTranscriptionRequest) (*dto.AudioTranscriptionResponse, error)
}

type audioService struct {
	uowFactory       unitofwork.RepositoryFactory
	transcriber      llm.Transcriber
	registry         *registry.Registry
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewAudioService(
	uowFactory unitofwork.RepositoryFactory,
	transcriber llm.Transcriber,
	reg *registry.Registry,
	publisherService IPublisherService,
	log logger.ILogger,
) IAudioService {
	return &audioService{
		uowFactory:       uowFactory,
		transcriber:      transcriber,
		registry:         reg,
		publisherService: publisherService,
		logger:           log,
	}
}

// transcriptionModel resolves a registry key; a blank key with no configured
// default falls back to the stock transcription model.
func (s *audioService) transcriptionModel(modelKey string) (string, error) {
	info, err := s.registry.Resolve(modelKey, featureTranscription)
	if err == nil {
		return info.Model, nil
	}
	if errors.Is(err, registry.ErrMissingModelKey) {
		return defaultAudioModel, nil
	}
	return "", apperror.Validation(err.Error())
}

func formatTimestamp(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// filterSegments drops segments under minConfidence. Segments without a
// confidence score are kept.
func filterSegments(segments []llm.TranscriptionSegment, minConfidence *float64) []llm.TranscriptionSegment {
	if minConfidence == nil {
		return segments
	}
	kept := make([]llm.TranscriptionSegment, 0, len(segments))
	for _, seg := range segments {
		if seg.Confidence != nil && *seg.Confidence < *minConfidence {
			continue
		}
		kept = append(kept, seg)
	}
	return kept
}

func joinSegments(segments []llm.TranscriptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func (s *audioService) Transcribe(ctx context.Context, userId uuid.UUID, req *dto.AudioTranscriptionRequest) (*dto.AudioTranscriptionResponse, error) {
	if len(req.Content) == 0 {
		return nil, apperror.Validation("Audio file contains no data")
	}
	if len(req.Content) > MaxAudioBytes {
		return nil, apperror.TooLarge(fmt.Sprintf("Audio file too large: %.2fMB > %dMB",
			float64(len(req.Content))/(1<<20), MaxAudioBytes>>20))
	}
	model, err := s.transcriptionModel(req.ModelKey)
	if err != nil {
		return nil, err
	}

	var attachment *entity.Attachment
	if req.AttachmentId != nil {
		attachment, err = findAttachment(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, *req.AttachmentId, false)
		if err != nil {
			return nil, err
		}
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = defaultAudioFilename
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}

	result, err := s.transcriber.Transcribe(ctx, llm.TranscriptionRequest{
		Filename:    filename,
		ContentType: contentType,
		Content:     req.Content,
		Model:       model,
		Language:    strings.TrimSpace(req.Language),
		Prompt:      strings.TrimSpace(req.Prompt),
	})
	if err != nil {
		if attachment != nil {
			s.markFailed(ctx, attachment.Id)
		}
		return nil, apperror.Upstream("Transcription failed", err)
	}

	segments := filterSegments(result.Segments, req.MinConfidence)
	text := strings.TrimSpace(result.Text)
	if len(segments) != len(result.Segments) {
		text = joinSegments(segments)
	}

	res := &dto.AudioTranscriptionResponse{
		Text:     text,
		Model:    result.Model,
		Segments: make([]dto.TranscriptionSegmentResponse, 0, len(segments)),
	}
	if result.Model == "" {
		res.Model = model
	}
	language := result.Language
	if language == "" {
		language = strings.TrimSpace(req.Language)
	}
	if language != "" {
		res.Language = &language
	}
	if result.DurationSec > 0 {
		duration := result.DurationSec
		res.Duration = &duration
	}
	for i, seg := range segments {
		ts := int(seg.Start)
		stamp := formatTimestamp(ts)
		res.Segments = append(res.Segments, dto.TranscriptionSegmentResponse{
			Seq:        i,
			ItemId:     seg.Id,
			TsSeconds:  &ts,
			Timestamp:  &stamp,
			Text:       strings.TrimSpace(seg.Text),
			Confidence: seg.Confidence,
		})
	}

	if attachment == nil {
		return res, nil
	}
	session, err := s.store(ctx, userId, attachment, res)
	if err != nil {
		return nil, err
	}
	res.SessionId = &session.Id
	res.AttachmentId = &attachment.Id

	s.publisherService.Publish(ctx, events.New(events.TranscriptionStored, userId, map[string]interface{}{
		"attachment_id": attachment.Id.String(),
		"notebook_id":   attachment.NotebookId.String(),
		"session_id":    session.Id.String(),
	}))
	return res, nil
}

// store replaces the attachment's transcription session in one transaction.
func (s *audioService) store(ctx context.Context, userId uuid.UUID, attachment *entity.Attachment, res *dto.AudioTranscriptionResponse) (*entity.TranscriptionSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	locked, err := findAttachment(ctx, uow, userId, attachment.Id, true)
	if err != nil {
		return nil, err
	}
	repo := uow.TranscriptionRepository()
	previous, err := repo.FindByAttachment(ctx, locked.Id)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		if _, err := aggregate.CascadeDelete(ctx, uow, "transcription_sessions", []uuid.UUID{previous.Id}); err != nil {
			return nil, apperror.FromStorage(err)
		}
	}

	notebookId := locked.NotebookId
	session := &entity.TranscriptionSession{
		UserId:       userId,
		NotebookId:   &notebookId,
		AttachmentId: locked.Id,
		Source:       entity.TranscriptionSourceBatch,
		Lang:         res.Language,
	}
	if res.Text != "" {
		text := res.Text
		session.FullText = &text
	}
	if res.Duration != nil {
		d := int(math.Round(*res.Duration))
		session.DurationSec = &d
	}
	for _, seg := range res.Segments {
		session.Segments = append(session.Segments, &entity.TranscriptionSegment{
			Seq:        seg.Seq,
			ItemId:     seg.ItemId,
			TsSeconds:  seg.TsSeconds,
			Timestamp:  seg.Timestamp,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		})
	}
	// Models without segment output still get one segment holding the full text.
	if len(session.Segments) == 0 && res.Text != "" {
		zero := 0
		stamp := formatTimestamp(0)
		session.Segments = append(session.Segments, &entity.TranscriptionSegment{
			Seq:       0,
			TsSeconds: &zero,
			Timestamp: &stamp,
			Text:      res.Text,
		})
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		return nil, apperror.FromStorage(err)
	}

	locked.TranscriptionStatus = entity.TranscriptionStatusCompleted
	locked.TranscriptionLang = session.Lang
	locked.TranscriptionDurationSec = session.DurationSec
	if err := uow.AttachmentRepository().Update(ctx, locked); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}
	return session, nil
}

func (s *audioService) markFailed(ctx context.Context, attachmentId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	attachment, err := uow.AttachmentRepository().FindOne(ctx, specification.ByID{ID: attachmentId})
	if err == nil && attachment != nil {
		attachment.TranscriptionStatus = entity.TranscriptionStatusFailed
		err = uow.AttachmentRepository().Update(ctx, attachment)
	}
	if err != nil {
		s.logger.Warn(audioModuleName, "Failed to mark transcription as failed", map[string]interface{}{
			"attachment_id": attachmentId.String(),
			"error":         err.Error(),
		})
	}
}
