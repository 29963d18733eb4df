package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	NotebookId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_notes_seq,priority:1"`
	Title      *string   `gorm:"type:varchar(255)"`
	Content    *string   `gorm:"type:text"`
	Seq        int       `gorm:"not null;uniqueIndex:uq_notes_seq,priority:2"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
