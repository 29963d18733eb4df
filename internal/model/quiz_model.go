package model

import (
	"time"

	"github.com/iZhuoxx/AI-web/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizFolder struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_folders_user_nb_name,priority:1"`
	NotebookId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_folders_user_nb_name,priority:2"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_quiz_folders_user_nb_name,priority:3"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (QuizFolder) TableName() string {
	return "quiz_folders"
}

type QuizQuestion struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID                   `gorm:"type:uuid;not null;index:idx_quiz_questions_user_nb,priority:1"`
	NotebookId   uuid.UUID                   `gorm:"type:uuid;not null;index:idx_quiz_questions_user_nb,priority:2"`
	Question     string                      `gorm:"type:text;not null"`
	Options      datatypes.JSONSlice[string] `gorm:"not null"`
	CorrectIndex int                         `gorm:"not null"`
	Hint         *string                     `gorm:"type:text"`
	Explaination *string                     `gorm:"type:text"`
	Meta         *datatypes.JSONType[entity.SourceMeta]
	IsFavorite   bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

type QuizFolderItem struct {
	FolderId   uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_quiz_folder_items_folder"`
	QuestionId uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_quiz_folder_items_question"`
	Seq        *int
}

func (QuizFolderItem) TableName() string {
	return "quiz_folder_items"
}

type QuizAttempt struct {
	Id             uuid.UUID                                 `gorm:"type:uuid;primaryKey"`
	UserId         uuid.UUID                                 `gorm:"type:uuid;not null;index"`
	FolderId       uuid.UUID                                 `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_attempts_folder"`
	Results        datatypes.JSONSlice[entity.AttemptResult] `gorm:"not null"`
	TotalQuestions int                                       `gorm:"not null"`
	CorrectCount   int                                       `gorm:"not null"`
	Summary        *string                                   `gorm:"type:text"`
	CreatedAt      time.Time                                 `gorm:"autoCreateTime"`
	UpdatedAt      time.Time                                 `gorm:"autoUpdateTime"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
