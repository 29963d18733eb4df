package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	Title      *string
	Content    *string
	Seq        int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
