package entity

import (
	"time"

	"github.com/google/uuid"
)

type MindMap struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	NotebookId uuid.UUID
	Title      string
	Data       MindMapData
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
