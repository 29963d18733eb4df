package entity

import (
	"time"

	"github.com/google/uuid"
)

type QuizFolder struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	NotebookId  uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type QuizQuestion struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	NotebookId   uuid.UUID
	Question     string
	Options      []string
	CorrectIndex int
	Hint         *string
	Explaination *string
	Meta         *SourceMeta
	IsFavorite   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AttemptResult struct {
	QuestionId     uuid.UUID `json:"question_id"`
	SelectedAnswer *int      `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

// QuizAttempt is the latest attempt of a folder; a new submission replaces it.
type QuizAttempt struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	FolderId       uuid.UUID
	Results        []AttemptResult
	TotalQuestions int
	CorrectCount   int
	Summary        *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
