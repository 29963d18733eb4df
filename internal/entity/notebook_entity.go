package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notebook struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	Title                *string
	Summary              *string
	IsArchived           bool
	Color                *string
	OpenaiVectorStoreId  *string
	VectorStoreExpiresAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NotebookFolder groups notebooks of one user. Membership is a weak reference.
type NotebookFolder struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Name        string
	Description *string
	Color       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
