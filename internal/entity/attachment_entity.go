package entity

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptionStatus string

const (
	TranscriptionStatusNone      TranscriptionStatus = "none"
	TranscriptionStatusPending   TranscriptionStatus = "pending"
	TranscriptionStatusCompleted TranscriptionStatus = "completed"
	TranscriptionStatusFailed    TranscriptionStatus = "failed"
)

type Attachment struct {
	Id                       uuid.UUID
	NotebookId               uuid.UUID
	UserId                   uuid.UUID
	Filename                 string
	Mime                     *string
	Bytes                    *int64
	Sha256                   *string
	S3ObjectKey              *string
	S3Url                    *string
	ExternalUrl              *string
	OpenaiFileId             *string
	OpenaiFilePurpose        *string
	EnableFileSearch         bool
	Summary                  *string
	Meta                     *AttachmentMeta
	TranscriptionStatus      TranscriptionStatus
	TranscriptionLang        *string
	TranscriptionDurationSec *int
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

type TranscriptionSource string

const (
	TranscriptionSourceRealtime TranscriptionSource = "realtime"
	TranscriptionSourceBatch    TranscriptionSource = "batch"
)

type TranscriptionSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	NotebookId   *uuid.UUID
	AttachmentId uuid.UUID
	Source       TranscriptionSource
	Lang         *string
	SampleRate   *int
	DurationSec  *int
	FullText     *string
	Segments     []*TranscriptionSegment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TranscriptionSegment struct {
	Id           uuid.UUID
	SessionId    uuid.UUID
	Seq          int
	ItemId       *string
	ContentIndex *int
	TsSeconds    *int
	Timestamp    *string
	Text         string
	Confidence   *float64
	CreatedAt    time.Time
}
