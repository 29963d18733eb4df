package model

import (
	"time"

	"github.com/iZhuoxx/AI-web/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MindMap struct {
	Id         uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID                             `gorm:"type:uuid;not null;index:idx_mindmaps_user_nb,priority:1"`
	NotebookId uuid.UUID                             `gorm:"type:uuid;not null;index:idx_mindmaps_user_nb,priority:2"`
	Title      string                                `gorm:"type:varchar(255);not null"`
	Data       datatypes.JSONType[entity.MindMapData] `gorm:"not null"`
	CreatedAt  time.Time                             `gorm:"autoCreateTime"`
	UpdatedAt  time.Time                             `gorm:"autoUpdateTime"`
}

func (MindMap) TableName() string {
	return "mindmaps"
}

// All lists every table model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Membership{},
		&Notebook{}, &Note{}, &Attachment{},
		&TranscriptionSession{}, &TranscriptionSegment{},
		&NotebookFolder{}, &NotebookFolderItem{},
		&FlashcardFolder{}, &Flashcard{}, &FlashcardFolderItem{},
		&QuizFolder{}, &QuizQuestion{}, &QuizFolderItem{}, &QuizAttempt{},
		&MindMap{},
	}
}
