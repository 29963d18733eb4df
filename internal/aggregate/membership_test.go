package aggregate

import (
	"testing"

	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeKeepsFirstSeenOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{b, a, c}, Dedupe([]uuid.UUID{b, a, b, c, a}))
	assert.Empty(t, Dedupe(nil))
}

func TestNotebooksOfFolderRoundTrip(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	folder := f.notebookFolder(u.Id, "Physics")
	n1, n2, n3 := f.notebook(u.Id), f.notebook(u.Id), f.notebook(u.Id)
	sync := NewMembershipSynchronizer()

	err := f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, NotebooksOfFolder, MembershipRequest{
			OwnerID: folder.Id, UserID: u.Id, Ids: []uuid.UUID{n2.Id, n1.Id, n2.Id},
		})
		return err
	})
	require.NoError(t, err)

	got, err := f.uow().FolderItemRepository(contract.NotebookFolderItems).ChildIDs(f.ctx, folder.Id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{n2.Id, n1.Id}, got)

	err = f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, NotebooksOfFolder, MembershipRequest{
			OwnerID: folder.Id, UserID: u.Id, Ids: []uuid.UUID{n3.Id},
		})
		return err
	})
	require.NoError(t, err)

	got, err = f.uow().FolderItemRepository(contract.NotebookFolderItems).ChildIDs(f.ctx, folder.Id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{n3.Id}, got)
}

func TestMembershipRejectionIsAtomic(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	stranger := f.user()
	folder := f.notebookFolder(u.Id, "Biology")
	n1, n2 := f.notebook(u.Id), f.notebook(u.Id)
	foreign := f.notebook(stranger.Id)
	missing := uuid.New()
	sync := NewMembershipSynchronizer()
	items := f.uow().FolderItemRepository(contract.NotebookFolderItems)

	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, NotebooksOfFolder, MembershipRequest{
			OwnerID: folder.Id, UserID: u.Id, Ids: []uuid.UUID{n1.Id},
		})
		return err
	}))
	before, err := items.ChildIDs(f.ctx, folder.Id)
	require.NoError(t, err)

	err = f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, NotebooksOfFolder, MembershipRequest{
			OwnerID: folder.Id, UserID: u.Id, Ids: []uuid.UUID{n2.Id, missing, foreign.Id},
		})
		return err
	})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, []string{missing.String(), foreign.Id.String()}, appErr.Ids)

	after, err := items.ChildIDs(f.ctx, folder.Id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFlashcardFolderCrossScopeRejection(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	x, y := f.notebook(u.Id), f.notebook(u.Id)
	folder := f.flashcardFolder(u.Id, x.Id, "Deck")
	inX := f.flashcard(u.Id, x.Id, "q1")
	inY := f.flashcard(u.Id, y.Id, "q2")
	sync := NewMembershipSynchronizer()
	scope := x.Id

	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, FlashcardsOfFolder, MembershipRequest{
			OwnerID: folder.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{inX.Id},
		})
		return err
	}))

	err := f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, FlashcardsOfFolder, MembershipRequest{
			OwnerID: folder.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{inX.Id, inY.Id},
		})
		return err
	})
	require.Error(t, err)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, []string{inY.Id.String()}, appErr.Ids)
	assert.Contains(t, appErr.Message, "different notebook")

	got, err := f.uow().FolderItemRepository(contract.FlashcardFolderItems).ChildIDs(f.ctx, folder.Id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{inX.Id}, got)
}

func TestChildSideReplacementKeepsFolderOrder(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	deckA := f.flashcardFolder(u.Id, nb.Id, "A")
	deckB := f.flashcardFolder(u.Id, nb.Id, "B")
	c1, c2, c3 := f.flashcard(u.Id, nb.Id, "1"), f.flashcard(u.Id, nb.Id, "2"), f.flashcard(u.Id, nb.Id, "3")
	sync := NewMembershipSynchronizer()
	scope := nb.Id

	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, FlashcardsOfFolder, MembershipRequest{
			OwnerID: deckA.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{c1.Id, c2.Id},
		})
		return err
	}))

	// c1 stays in A and joins B; c3 joins A at the end.
	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		if _, err := sync.Replace(f.ctx, uow, FoldersOfFlashcard, MembershipRequest{
			OwnerID: c1.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{deckB.Id, deckA.Id},
		}); err != nil {
			return err
		}
		_, err := sync.Replace(f.ctx, uow, FoldersOfFlashcard, MembershipRequest{
			OwnerID: c3.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{deckA.Id},
		})
		return err
	}))

	items := f.uow().FolderItemRepository(contract.FlashcardFolderItems)
	inA, err := items.ChildIDs(f.ctx, deckA.Id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c1.Id, c2.Id, c3.Id}, inA)

	inB, err := items.ChildIDs(f.ctx, deckB.Id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c1.Id}, inB)

	// Dropping every folder removes only the join rows.
	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := sync.Replace(f.ctx, uow, FoldersOfFlashcard, MembershipRequest{
			OwnerID: c1.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{},
		})
		return err
	}))
	parents, err := items.ParentIDs(f.ctx, c1.Id)
	require.NoError(t, err)
	assert.Empty(t, parents)
	count, err := f.uow().FlashcardRepository().Count(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
