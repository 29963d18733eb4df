package unitofwork

import (
	"context"
	"fmt"

	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

// getDB returns the open transaction when there is one.
func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NotebookRepository() contract.NotebookRepository {
	return implementation.NewNotebookRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NoteRepository() contract.NoteRepository {
	return implementation.NewNoteRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NotebookFolderRepository() contract.NotebookFolderRepository {
	return implementation.NewNotebookFolderRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AttachmentRepository() contract.AttachmentRepository {
	return implementation.NewAttachmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TranscriptionRepository() contract.TranscriptionRepository {
	return implementation.NewTranscriptionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FlashcardRepository() contract.FlashcardRepository {
	return implementation.NewFlashcardRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FlashcardFolderRepository() contract.FlashcardFolderRepository {
	return implementation.NewFlashcardFolderRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QuizQuestionRepository() contract.QuizQuestionRepository {
	return implementation.NewQuizQuestionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QuizFolderRepository() contract.QuizFolderRepository {
	return implementation.NewQuizFolderRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QuizAttemptRepository() contract.QuizAttemptRepository {
	return implementation.NewQuizAttemptRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MindMapRepository() contract.MindMapRepository {
	return implementation.NewMindMapRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FolderItemRepository(table contract.JoinTable) contract.FolderItemRepository {
	return implementation.NewFolderItemRepository(u.getDB(), table)
}

func (u *UnitOfWorkImpl) CascadeRepository() contract.CascadeRepository {
	return implementation.NewCascadeRepository(u.getDB())
}
