package dto

import (
	"time"

	"github.com/google/uuid"
)

// NoteInput is one entry of a notebook's note list. Seq is honoured on create
// and ignored on update, where the list order decides.
type NoteInput struct {
	Id      *uuid.UUID `json:"id"`
	Title   *string    `json:"title"`
	Content *string    `json:"content"`
	Seq     *int       `json:"seq"`
}

type NoteResponse struct {
	Id      uuid.UUID `json:"id"`
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Seq     int       `json:"seq"`
}

type CreateNotebookRequest struct {
	Title                *string     `json:"title"`
	Summary              *string     `json:"summary"`
	IsArchived           *bool       `json:"is_archived"`
	Color                *string     `json:"color" validate:"omitempty,max=32"`
	OpenaiVectorStoreId  *string     `json:"openai_vector_store_id"`
	VectorStoreExpiresAt *time.Time  `json:"vector_store_expires_at"`
	Notes                []NoteInput `json:"notes"`
	FolderIds            []uuid.UUID `json:"folder_ids"`
}

// UpdateNotebookRequest replaces the notebook. A null or missing notes or
// folder_ids leaves that part as it is.
type UpdateNotebookRequest struct {
	Id                   uuid.UUID    `json:"-"`
	Title                *string      `json:"title"`
	Summary              *string      `json:"summary"`
	IsArchived           *bool        `json:"is_archived"`
	Color                *string      `json:"color" validate:"omitempty,max=32"`
	OpenaiVectorStoreId  *string      `json:"openai_vector_store_id"`
	VectorStoreExpiresAt *time.Time   `json:"vector_store_expires_at"`
	Notes                *[]NoteInput `json:"notes"`
	FolderIds            *[]uuid.UUID `json:"folder_ids"`
}

type NotebookFolderRef struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
}

type NotebookResponse struct {
	Id                   uuid.UUID            `json:"id"`
	Title                *string              `json:"title"`
	Summary              *string              `json:"summary"`
	IsArchived           bool                 `json:"is_archived"`
	Color                *string              `json:"color"`
	OpenaiVectorStoreId  *string              `json:"openai_vector_store_id"`
	VectorStoreExpiresAt *time.Time           `json:"vector_store_expires_at"`
	Notes                []NoteResponse       `json:"notes"`
	Attachments          []AttachmentResponse `json:"attachments"`
	Folders              []NotebookFolderRef  `json:"folders"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

type GenerateTitleRequest struct {
	Content string `json:"content" validate:"required,max=12000"`
}

type GenerateTitleResponse struct {
	Title string `json:"title"`
}

type NotebookFolderRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Description *string      `json:"description"`
	Color       *string      `json:"color" validate:"omitempty,max=32"`
	NotebookIds *[]uuid.UUID `json:"notebook_ids"`
}

type UpdateNotebookFolderRequest struct {
	Id          uuid.UUID    `json:"-"`
	Name        *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description"`
	Color       *string      `json:"color" validate:"omitempty,max=32"`
	NotebookIds *[]uuid.UUID `json:"notebook_ids"`
}

type NotebookFolderResponse struct {
	Id          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Color       *string     `json:"color"`
	NotebookIds []uuid.UUID `json:"notebook_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
