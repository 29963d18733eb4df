package aggregate

import (
	"context"
	"testing"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/testdb"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, ctx: context.Background(), db: testdb.New(t)}
}

func (f *fixture) uow() unitofwork.UnitOfWork {
	return unitofwork.NewUnitOfWork(f.db)
}

// inTx runs fn in a transaction and commits only when it succeeds.
func (f *fixture) inTx(fn func(uow unitofwork.UnitOfWork) error) error {
	uow := f.uow()
	require.NoError(f.t, uow.Begin(f.ctx))
	if err := fn(uow); err != nil {
		require.NoError(f.t, uow.Rollback())
		return err
	}
	return uow.Commit()
}

func strPtr(s string) *string { return &s }

func (f *fixture) user() *entity.User {
	u := &entity.User{Email: uuid.NewString() + "@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(f.t, f.uow().UserRepository().Create(f.ctx, u))
	return u
}

func (f *fixture) notebook(userID uuid.UUID) *entity.Notebook {
	nb := &entity.Notebook{UserId: userID, Title: strPtr("notebook")}
	require.NoError(f.t, f.uow().NotebookRepository().Create(f.ctx, nb))
	return nb
}

func (f *fixture) note(notebookID uuid.UUID, seq int, title string) *entity.Note {
	n := &entity.Note{NotebookId: notebookID, Seq: seq, Title: strPtr(title)}
	require.NoError(f.t, f.uow().NoteRepository().Create(f.ctx, n))
	return n
}

func (f *fixture) notes(notebookID uuid.UUID) []*entity.Note {
	notes, err := f.uow().NoteRepository().FindAll(f.ctx, byNotebookOrdered(notebookID)...)
	require.NoError(f.t, err)
	return notes
}

func (f *fixture) notebookFolder(userID uuid.UUID, name string) *entity.NotebookFolder {
	folder := &entity.NotebookFolder{UserId: userID, Name: name}
	require.NoError(f.t, f.uow().NotebookFolderRepository().Create(f.ctx, folder))
	return folder
}

func (f *fixture) flashcard(userID, notebookID uuid.UUID, q string) *entity.Flashcard {
	card := &entity.Flashcard{UserId: userID, NotebookId: notebookID, Question: q, Answer: "a"}
	require.NoError(f.t, f.uow().FlashcardRepository().Create(f.ctx, card))
	return card
}

func (f *fixture) flashcardFolder(userID, notebookID uuid.UUID, name string) *entity.FlashcardFolder {
	folder := &entity.FlashcardFolder{UserId: userID, NotebookId: notebookID, Name: name}
	require.NoError(f.t, f.uow().FlashcardFolderRepository().Create(f.ctx, folder))
	return folder
}

func idsOf(notes []*entity.Note) []uuid.UUID {
	ids := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		ids[i] = n.Id
	}
	return ids
}

func byNotebookOrdered(notebookID uuid.UUID) []specification.Specification {
	return []specification.Specification{
		specification.ByNotebookID{NotebookID: notebookID},
		specification.OrderBySeq{},
	}
}
