package dto

import (
	"time"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/pkg/storage"

	"github.com/google/uuid"
)

type AttachmentResponse struct {
	Id                       uuid.UUID              `json:"id"`
	Filename                 string                 `json:"filename"`
	Mime                     *string                `json:"mime"`
	Bytes                    *int64                 `json:"bytes"`
	Sha256                   *string                `json:"sha256"`
	S3ObjectKey              *string                `json:"s3_object_key"`
	S3Url                    *string                `json:"s3_url"`
	ExternalUrl              *string                `json:"external_url"`
	OpenaiFileId             *string                `json:"openai_file_id"`
	OpenaiFilePurpose        *string                `json:"openai_file_purpose"`
	EnableFileSearch         bool                   `json:"enable_file_search"`
	Summary                  *string                `json:"summary"`
	Meta                     *entity.AttachmentMeta `json:"meta"`
	TranscriptionStatus      string                 `json:"transcription_status"`
	TranscriptionLang        *string                `json:"transcription_lang"`
	TranscriptionDurationSec *int                   `json:"transcription_duration_sec"`
	CreatedAt                time.Time              `json:"created_at"`
	UpdatedAt                time.Time              `json:"updated_at"`
}

type PresignUploadRequest struct {
	NotebookId  uuid.UUID `json:"notebook_id" validate:"required"`
	Filename    string    `json:"filename" validate:"required,max=255"`
	ContentType *string   `json:"content_type"`
	Bytes       *int64    `json:"bytes" validate:"omitempty,gte=0"`
}

type PresignUploadResponse struct {
	AttachmentId uuid.UUID                `json:"attachment_id"`
	S3ObjectKey  string                   `json:"s3_object_key"`
	Upload       storage.PresignedRequest `json:"upload"`
}

type DownloadURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

type UpdateAttachmentRequest struct {
	Id       uuid.UUID `json:"-"`
	Filename *string   `json:"filename" validate:"omitempty,max=255"`
}

type UpdateAttachmentResponse struct {
	Id       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
}

type LinkOpenAIRequest struct {
	Id           uuid.UUID `json:"-"`
	OpenaiFileId string    `json:"openai_file_id" validate:"required"`
}

type LinkOpenAIResponse struct {
	Id                  uuid.UUID `json:"id"`
	OpenaiFileId        string    `json:"openai_file_id"`
	OpenaiVectorStoreId *string   `json:"openai_vector_store_id"`
}

type TranscriptionSegmentResponse struct {
	Seq        int      `json:"seq"`
	ItemId     *string  `json:"item_id,omitempty"`
	TsSeconds  *int     `json:"ts_seconds,omitempty"`
	Timestamp  *string  `json:"timestamp,omitempty"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type AudioTranscriptionRequest struct {
	Filename      string
	ContentType   string
	Content       []byte
	ModelKey      string
	Language      string
	Prompt        string
	MinConfidence *float64
	AttachmentId  *uuid.UUID
}

type AudioTranscriptionResponse struct {
	Text         string                         `json:"text"`
	Model        string                         `json:"model"`
	Language     *string                        `json:"language,omitempty"`
	Duration     *float64                       `json:"duration,omitempty"`
	Segments     []TranscriptionSegmentResponse `json:"segments"`
	SessionId    *uuid.UUID                     `json:"session_id,omitempty"`
	AttachmentId *uuid.UUID                     `json:"attachment_id,omitempty"`
}
