package entity

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	NotebookId uuid.UUID
	Question   string
	Answer     string
	Meta       *SourceMeta
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type FlashcardFolder struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	NotebookId  uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
