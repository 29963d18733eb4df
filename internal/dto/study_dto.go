package dto

import (
	"time"

	"github.com/iZhuoxx/AI-web/internal/entity"

	"github.com/google/uuid"
)

// Flashcards

type CreateFlashcardRequest struct {
	NotebookId uuid.UUID          `json:"notebook_id" validate:"required"`
	Question   string             `json:"question" validate:"required"`
	Answer     string             `json:"answer" validate:"required"`
	Meta       *entity.SourceMeta `json:"meta"`
	FolderIds  []uuid.UUID        `json:"folder_ids"`
}

type UpdateFlashcardRequest struct {
	Id        uuid.UUID          `json:"-"`
	Question  *string            `json:"question" validate:"omitempty,min=1"`
	Answer    *string            `json:"answer" validate:"omitempty,min=1"`
	Meta      *entity.SourceMeta `json:"meta"`
	FolderIds *[]uuid.UUID       `json:"folder_ids"`
}

type FlashcardResponse struct {
	Id         uuid.UUID          `json:"id"`
	NotebookId uuid.UUID          `json:"notebook_id"`
	Question   string             `json:"question"`
	Answer     string             `json:"answer"`
	Meta       *entity.SourceMeta `json:"meta"`
	FolderIds  []uuid.UUID        `json:"folder_ids"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type CreateFlashcardFolderRequest struct {
	NotebookId   uuid.UUID   `json:"notebook_id" validate:"required"`
	Name         string      `json:"name" validate:"required,max=255"`
	Description  *string     `json:"description"`
	FlashcardIds []uuid.UUID `json:"flashcard_ids"`
}

type UpdateFlashcardFolderRequest struct {
	Id           uuid.UUID    `json:"-"`
	Name         *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string      `json:"description"`
	FlashcardIds *[]uuid.UUID `json:"flashcard_ids"`
}

type FlashcardFolderResponse struct {
	Id           uuid.UUID   `json:"id"`
	NotebookId   uuid.UUID   `json:"notebook_id"`
	Name         string      `json:"name"`
	Description  *string     `json:"description"`
	FlashcardIds []uuid.UUID `json:"flashcard_ids"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Quizzes

type CreateQuizQuestionRequest struct {
	NotebookId   uuid.UUID          `json:"notebook_id" validate:"required"`
	Question     string             `json:"question" validate:"required"`
	Options      []string           `json:"options" validate:"required,min=2,max=10,dive,required"`
	CorrectIndex int                `json:"correct_index"`
	Hint         *string            `json:"hint"`
	Explaination *string            `json:"explaination"`
	Meta         *entity.SourceMeta `json:"meta"`
	IsFavorite   bool               `json:"is_favorite"`
	FolderIds    []uuid.UUID        `json:"folder_ids"`
}

type UpdateQuizQuestionRequest struct {
	Id           uuid.UUID          `json:"-"`
	NotebookId   *uuid.UUID         `json:"notebook_id"`
	Question     *string            `json:"question" validate:"omitempty,min=1"`
	Options      []string           `json:"options" validate:"omitempty,min=2,max=10,dive,required"`
	CorrectIndex *int               `json:"correct_index"`
	Hint         *string            `json:"hint"`
	Explaination *string            `json:"explaination"`
	Meta         *entity.SourceMeta `json:"meta"`
	IsFavorite   *bool              `json:"is_favorite"`
	FolderIds    *[]uuid.UUID       `json:"folder_ids"`
}

type QuizQuestionResponse struct {
	Id           uuid.UUID          `json:"id"`
	NotebookId   uuid.UUID          `json:"notebook_id"`
	Question     string             `json:"question"`
	Options      []string           `json:"options"`
	CorrectIndex int                `json:"correct_index"`
	Hint         *string            `json:"hint"`
	Explaination *string            `json:"explaination"`
	Meta         *entity.SourceMeta `json:"meta"`
	IsFavorite   bool               `json:"is_favorite"`
	FolderIds    []uuid.UUID        `json:"folder_ids"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type CreateQuizFolderRequest struct {
	NotebookId  uuid.UUID   `json:"notebook_id" validate:"required"`
	Name        string      `json:"name" validate:"required,max=255"`
	Description *string     `json:"description"`
	QuestionIds []uuid.UUID `json:"question_ids"`
}

type UpdateQuizFolderRequest struct {
	Id          uuid.UUID    `json:"-"`
	Name        *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description"`
	QuestionIds *[]uuid.UUID `json:"question_ids"`
}

type QuizFolderResponse struct {
	Id          uuid.UUID   `json:"id"`
	NotebookId  uuid.UUID   `json:"notebook_id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	QuestionIds []uuid.UUID `json:"question_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type AttemptResultInput struct {
	QuestionId     uuid.UUID `json:"question_id" validate:"required"`
	SelectedAnswer *int      `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

type SubmitQuizAttemptRequest struct {
	FolderId uuid.UUID            `json:"-"`
	Results  []AttemptResultInput `json:"results" validate:"dive"`
	ModelKey string               `json:"model_key"`
}

type QuizAttemptResponse struct {
	Id             uuid.UUID              `json:"id"`
	FolderId       uuid.UUID              `json:"folder_id"`
	Results        []entity.AttemptResult `json:"results"`
	TotalQuestions int                    `json:"total_questions"`
	CorrectCount   int                    `json:"correct_count"`
	Summary        *string                `json:"summary"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// Mind maps

type CreateMindMapRequest struct {
	NotebookId uuid.UUID           `json:"notebook_id" validate:"required"`
	Title      string              `json:"title" validate:"required,max=255"`
	Data       *entity.MindMapData `json:"data"`
}

type UpdateMindMapRequest struct {
	Id         uuid.UUID           `json:"-"`
	NotebookId *uuid.UUID          `json:"notebook_id"`
	Title      *string             `json:"title" validate:"omitempty,min=1,max=255"`
	Data       *entity.MindMapData `json:"data"`
}

type MindMapResponse struct {
	Id         uuid.UUID          `json:"id"`
	NotebookId uuid.UUID          `json:"notebook_id"`
	Title      string             `json:"title"`
	Data       entity.MindMapData `json:"data"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Generation

type GenerateRequest struct {
	NotebookId    uuid.UUID   `json:"-"`
	AttachmentIds []uuid.UUID `json:"attachment_ids"`
	Count         *int        `json:"count" validate:"omitempty,min=1,max=50"`
	Focus         string      `json:"focus" validate:"max=2000"`
	FolderName    string      `json:"folder_name" validate:"max=255"`
	FolderId      *uuid.UUID  `json:"folder_id"`
	ModelKey      string      `json:"model_key"`
}

type GeneratedFlashcardsResponse struct {
	Folder     *FlashcardFolderResponse `json:"folder,omitempty"`
	Flashcards []FlashcardResponse      `json:"flashcards"`
}

type GeneratedQuizResponse struct {
	Folder    *QuizFolderResponse    `json:"folder,omitempty"`
	Questions []QuizQuestionResponse `json:"questions"`
}
