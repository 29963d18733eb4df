package model

import (
	"time"

	"github.com/iZhuoxx/AI-web/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FlashcardFolder struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_flashcard_folders_user_nb_name,priority:1"`
	NotebookId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_flashcard_folders_user_nb_name,priority:2"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_flashcard_folders_user_nb_name,priority:3"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (FlashcardFolder) TableName() string {
	return "flashcard_folders"
}

type Flashcard struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index:idx_flashcards_user_nb,priority:1"`
	NotebookId uuid.UUID `gorm:"type:uuid;not null;index:idx_flashcards_user_nb,priority:2"`
	Question   string    `gorm:"type:text;not null"`
	Answer     string    `gorm:"type:text;not null"`
	Meta       *datatypes.JSONType[entity.SourceMeta]
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

type FlashcardFolderItem struct {
	FolderId    uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_flashcard_folder_items_folder"`
	FlashcardId uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_flashcard_folder_items_flashcard"`
	Seq         *int
}

func (FlashcardFolderItem) TableName() string {
	return "flashcard_folder_items"
}
