package model

import (
	"time"

	"github.com/iZhuoxx/AI-web/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Attachment struct {
	Id                       uuid.UUID                                  `gorm:"type:uuid;primaryKey"`
	NotebookId               uuid.UUID                                  `gorm:"type:uuid;not null;index"`
	UserId                   uuid.UUID                                  `gorm:"type:uuid;not null;index"`
	Filename                 string                                     `gorm:"type:varchar(255)"`
	Mime                     *string                                    `gorm:"type:varchar(255)"`
	Bytes                    *int64
	Sha256                   *string                                    `gorm:"type:varchar(128)"`
	S3ObjectKey              *string                                    `gorm:"type:varchar(512)"`
	S3Url                    *string                                    `gorm:"type:varchar(512)"`
	ExternalUrl              *string                                    `gorm:"type:varchar(512)"`
	OpenaiFileId             *string                                    `gorm:"type:varchar(255)"`
	OpenaiFilePurpose        *string                                    `gorm:"type:varchar(64)"`
	EnableFileSearch         bool                                       `gorm:"not null;default:true"`
	Summary                  *string                                    `gorm:"type:text"`
	Meta                     *datatypes.JSONType[entity.AttachmentMeta]
	TranscriptionStatus      string                                     `gorm:"type:varchar(20);not null;default:'none'"`
	TranscriptionLang        *string                                    `gorm:"type:varchar(32)"`
	TranscriptionDurationSec *int
	CreatedAt                time.Time `gorm:"autoCreateTime"`
	UpdatedAt                time.Time `gorm:"autoUpdateTime"`
}

func (Attachment) TableName() string {
	return "attachments"
}

type TranscriptionSession struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	NotebookId   *uuid.UUID `gorm:"type:uuid;index"`
	AttachmentId uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_transcription_sessions_attachment_id"`
	Source       string     `gorm:"type:varchar(20);not null"`
	Lang         *string    `gorm:"type:varchar(32)"`
	SampleRate   *int
	DurationSec  *int
	FullText     *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (TranscriptionSession) TableName() string {
	return "transcription_sessions"
}

type TranscriptionSegment struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_ts_segments_seq,priority:1"`
	Seq          int       `gorm:"not null;uniqueIndex:uq_ts_segments_seq,priority:2"`
	ItemId       *string   `gorm:"type:varchar(255)"`
	ContentIndex *int
	TsSeconds    *int
	Timestamp    *string `gorm:"type:varchar(32)"`
	Text         string  `gorm:"type:text;not null"`
	Confidence   *float64
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (TranscriptionSegment) TableName() string {
	return "transcription_segments"
}
