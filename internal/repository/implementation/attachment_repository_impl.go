package implementation

import (
	"context"
	"errors"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/mapper"
	"github.com/iZhuoxx/AI-web/internal/model"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentRepositoryImpl struct {
	crudRepository[entity.Attachment, model.Attachment]
}

func NewAttachmentRepository(db *gorm.DB) contract.AttachmentRepository {
	m := mapper.NewAttachmentMapper()
	return &AttachmentRepositoryImpl{
		crudRepository: crudRepository[entity.Attachment, model.Attachment]{db: db, toEntity: m.ToEntity, toModel: m.ToModel},
	}
}

type TranscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AttachmentMapper
}

func NewTranscriptionRepository(db *gorm.DB) contract.TranscriptionRepository {
	return &TranscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAttachmentMapper(),
	}
}

func (r *TranscriptionRepositoryImpl) CreateSession(ctx context.Context, session *entity.TranscriptionSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	segments := make([]*model.TranscriptionSegment, 0, len(session.Segments))
	for _, s := range session.Segments {
		s.SessionId = m.Id
		segments = append(segments, r.mapper.SegmentToModel(s))
	}
	if len(segments) > 0 {
		if err := r.db.WithContext(ctx).Create(&segments).Error; err != nil {
			return err
		}
	}
	stored := r.mapper.SessionToEntity(m)
	for _, s := range segments {
		stored.Segments = append(stored.Segments, r.mapper.SegmentToEntity(s))
	}
	*session = *stored
	return nil
}

func (r *TranscriptionRepositoryImpl) FindByAttachment(ctx context.Context, attachmentId uuid.UUID) (*entity.TranscriptionSession, error) {
	var m model.TranscriptionSession
	if err := r.db.WithContext(ctx).Where("attachment_id = ?", attachmentId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var segments []*model.TranscriptionSegment
	if err := r.db.WithContext(ctx).Where("session_id = ?", m.Id).Order("seq ASC").Find(&segments).Error; err != nil {
		return nil, err
	}
	session := r.mapper.SessionToEntity(&m)
	for _, s := range segments {
		session.Segments = append(session.Segments, r.mapper.SegmentToEntity(s))
	}
	return session, nil
}
