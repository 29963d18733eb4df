package aggregate

import (
	"testing"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnershipTableNamesKnownParents(t *testing.T) {
	tables := map[string]bool{}
	for _, o := range OwnershipTable {
		tables[o.Child] = true
	}
	tables["users"] = true
	for _, o := range OwnershipTable {
		assert.True(t, tables[o.Parent], "parent %s of %s is not a known table", o.Parent, o.Child)
	}
}

func TestCascadeDeleteNotebook(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	keep := f.notebook(u.Id)
	f.note(nb.Id, 0, "A")
	f.note(nb.Id, 1, "B")
	kept := f.note(keep.Id, 0, "kept")
	folder := f.notebookFolder(u.Id, "shelf")
	deck := f.flashcardFolder(u.Id, nb.Id, "deck")
	card := f.flashcard(u.Id, nb.Id, "q")

	att := &entity.Attachment{NotebookId: nb.Id, UserId: u.Id, Filename: "a.mp3"}
	require.NoError(t, f.uow().AttachmentRepository().Create(f.ctx, att))
	session := &entity.TranscriptionSession{
		UserId: u.Id, NotebookId: &nb.Id, AttachmentId: att.Id, Source: entity.TranscriptionSourceBatch,
		Segments: []*entity.TranscriptionSegment{{Seq: 0, Text: "hello"}},
	}
	require.NoError(t, f.uow().TranscriptionRepository().CreateSession(f.ctx, session))

	sync := NewMembershipSynchronizer()
	scope := nb.Id
	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		if _, err := sync.Replace(f.ctx, uow, NotebooksOfFolder, MembershipRequest{
			OwnerID: folder.Id, UserID: u.Id, Ids: []uuid.UUID{nb.Id, keep.Id},
		}); err != nil {
			return err
		}
		_, err := sync.Replace(f.ctx, uow, FlashcardsOfFolder, MembershipRequest{
			OwnerID: deck.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{card.Id},
		})
		return err
	}))

	var report CascadeReport
	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		var err error
		report, err = CascadeDelete(f.ctx, uow, "notebooks", []uuid.UUID{nb.Id})
		return err
	}))

	assert.EqualValues(t, 1, report["notebooks"])
	assert.EqualValues(t, 2, report["notes"])
	assert.EqualValues(t, 1, report["attachments"])
	assert.EqualValues(t, 1, report["transcription_sessions"])
	assert.EqualValues(t, 1, report["transcription_segments"])
	assert.EqualValues(t, 1, report["flashcards"])
	assert.EqualValues(t, 1, report["flashcard_folders"])

	assert.Empty(t, f.notes(nb.Id))
	require.Len(t, f.notes(keep.Id), 1)
	assert.Equal(t, kept.Id, f.notes(keep.Id)[0].Id)

	// The notebook folder survives and only lost its join row.
	survivor, err := f.uow().NotebookFolderRepository().FindOne(f.ctx, specification.ByID{ID: folder.Id})
	require.NoError(t, err)
	require.NotNil(t, survivor)
	members, err := f.uow().FolderItemRepository(contract.NotebookFolderItems).ChildIDs(f.ctx, folder.Id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keep.Id}, members)
}

func TestCascadeDeleteFolderKeepsItems(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	deck := f.flashcardFolder(u.Id, nb.Id, "deck")
	card := f.flashcard(u.Id, nb.Id, "q")
	scope := nb.Id

	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := NewMembershipSynchronizer().Replace(f.ctx, uow, FlashcardsOfFolder, MembershipRequest{
			OwnerID: deck.Id, UserID: u.Id, NotebookID: &scope, Ids: []uuid.UUID{card.Id},
		})
		return err
	}))
	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := CascadeDelete(f.ctx, uow, "flashcard_folders", []uuid.UUID{deck.Id})
		return err
	}))

	got, err := f.uow().FlashcardRepository().FindOne(f.ctx, specification.ByID{ID: card.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	parents, err := f.uow().FolderItemRepository(contract.FlashcardFolderItems).ParentIDs(f.ctx, card.Id)
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestCascadeSetNullKeepsChild(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	other := f.notebook(u.Id)

	// The attachment lives in another notebook, so only the notebook reference is cleared.
	att := &entity.Attachment{NotebookId: other.Id, UserId: u.Id, Filename: "talk.wav"}
	require.NoError(t, f.uow().AttachmentRepository().Create(f.ctx, att))
	session := &entity.TranscriptionSession{
		UserId: u.Id, NotebookId: &nb.Id, AttachmentId: att.Id, Source: entity.TranscriptionSourceRealtime,
	}
	require.NoError(t, f.uow().TranscriptionRepository().CreateSession(f.ctx, session))

	require.NoError(t, f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := CascadeDelete(f.ctx, uow, "notebooks", []uuid.UUID{nb.Id})
		return err
	}))

	got, err := f.uow().TranscriptionRepository().FindByAttachment(f.ctx, att.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.NotebookId)
}
