package mapper

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/model"
)

type AttachmentMapper struct{}

func NewAttachmentMapper() *AttachmentMapper {
	return &AttachmentMapper{}
}

func (m *AttachmentMapper) ToEntity(a *model.Attachment) *entity.Attachment {
	if a == nil {
		return nil
	}
	return &entity.Attachment{
		Id:                       a.Id,
		NotebookId:               a.NotebookId,
		UserId:                   a.UserId,
		Filename:                 a.Filename,
		Mime:                     a.Mime,
		Bytes:                    a.Bytes,
		Sha256:                   a.Sha256,
		S3ObjectKey:              a.S3ObjectKey,
		S3Url:                    a.S3Url,
		ExternalUrl:              a.ExternalUrl,
		OpenaiFileId:             a.OpenaiFileId,
		OpenaiFilePurpose:        a.OpenaiFilePurpose,
		EnableFileSearch:         a.EnableFileSearch,
		Summary:                  a.Summary,
		Meta:                     fromJSONPtr(a.Meta),
		TranscriptionStatus:      entity.TranscriptionStatus(a.TranscriptionStatus),
		TranscriptionLang:        a.TranscriptionLang,
		TranscriptionDurationSec: a.TranscriptionDurationSec,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}

func (m *AttachmentMapper) ToModel(a *entity.Attachment) *model.Attachment {
	if a == nil {
		return nil
	}
	status := string(a.TranscriptionStatus)
	if status == "" {
		status = string(entity.TranscriptionStatusNone)
	}
	return &model.Attachment{
		Id:                       a.Id,
		NotebookId:               a.NotebookId,
		UserId:                   a.UserId,
		Filename:                 a.Filename,
		Mime:                     a.Mime,
		Bytes:                    a.Bytes,
		Sha256:                   a.Sha256,
		S3ObjectKey:              a.S3ObjectKey,
		S3Url:                    a.S3Url,
		ExternalUrl:              a.ExternalUrl,
		OpenaiFileId:             a.OpenaiFileId,
		OpenaiFilePurpose:        a.OpenaiFilePurpose,
		EnableFileSearch:         a.EnableFileSearch,
		Summary:                  a.Summary,
		Meta:                     toJSONPtr(a.Meta),
		TranscriptionStatus:      status,
		TranscriptionLang:        a.TranscriptionLang,
		TranscriptionDurationSec: a.TranscriptionDurationSec,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}

func (m *AttachmentMapper) ToEntities(items []*model.Attachment) []*entity.Attachment {
	entities := make([]*entity.Attachment, len(items))
	for i, a := range items {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *AttachmentMapper) SessionToModel(s *entity.TranscriptionSession) *model.TranscriptionSession {
	if s == nil {
		return nil
	}
	return &model.TranscriptionSession{
		Id:           s.Id,
		UserId:       s.UserId,
		NotebookId:   s.NotebookId,
		AttachmentId: s.AttachmentId,
		Source:       string(s.Source),
		Lang:         s.Lang,
		SampleRate:   s.SampleRate,
		DurationSec:  s.DurationSec,
		FullText:     s.FullText,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *AttachmentMapper) SessionToEntity(s *model.TranscriptionSession) *entity.TranscriptionSession {
	if s == nil {
		return nil
	}
	return &entity.TranscriptionSession{
		Id:           s.Id,
		UserId:       s.UserId,
		NotebookId:   s.NotebookId,
		AttachmentId: s.AttachmentId,
		Source:       entity.TranscriptionSource(s.Source),
		Lang:         s.Lang,
		SampleRate:   s.SampleRate,
		DurationSec:  s.DurationSec,
		FullText:     s.FullText,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *AttachmentMapper) SegmentToModel(s *entity.TranscriptionSegment) *model.TranscriptionSegment {
	if s == nil {
		return nil
	}
	return &model.TranscriptionSegment{
		Id:           s.Id,
		SessionId:    s.SessionId,
		Seq:          s.Seq,
		ItemId:       s.ItemId,
		ContentIndex: s.ContentIndex,
		TsSeconds:    s.TsSeconds,
		Timestamp:    s.Timestamp,
		Text:         s.Text,
		Confidence:   s.Confidence,
		CreatedAt:    s.CreatedAt,
	}
}

func (m *AttachmentMapper) SegmentToEntity(s *model.TranscriptionSegment) *entity.TranscriptionSegment {
	if s == nil {
		return nil
	}
	return &entity.TranscriptionSegment{
		Id:           s.Id,
		SessionId:    s.SessionId,
		Seq:          s.Seq,
		ItemId:       s.ItemId,
		ContentIndex: s.ContentIndex,
		TsSeconds:    s.TsSeconds,
		Timestamp:    s.Timestamp,
		Text:         s.Text,
		Confidence:   s.Confidence,
		CreatedAt:    s.CreatedAt,
	}
}
