package unitofwork

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NotebookRepository() contract.NotebookRepository
	NoteRepository() contract.NoteRepository
	NotebookFolderRepository() contract.NotebookFolderRepository
	AttachmentRepository() contract.AttachmentRepository
	TranscriptionRepository() contract.TranscriptionRepository
	FlashcardRepository() contract.FlashcardRepository
	FlashcardFolderRepository() contract.FlashcardFolderRepository
	QuizQuestionRepository() contract.QuizQuestionRepository
	QuizFolderRepository() contract.QuizFolderRepository
	QuizAttemptRepository() contract.QuizAttemptRepository
	MindMapRepository() contract.MindMapRepository

	FolderItemRepository(table contract.JoinTable) contract.FolderItemRepository
	CascadeRepository() contract.CascadeRepository
}
