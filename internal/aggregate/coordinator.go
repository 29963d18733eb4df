package aggregate

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const MaxNoteTitleLength = 255

// NotebookChange is a full replacement of a notebook. Scalars always
// overwrite, except IsArchived which only applies when set. A nil Notes or
// FolderIds leaves that part untouched; a non-nil empty slice clears it.
type NotebookChange struct {
	Title                *string
	Summary              *string
	Color                *string
	OpenaiVectorStoreId  *string
	VectorStoreExpiresAt *time.Time
	IsArchived           *bool
	Notes                *[]DesiredNote
	FolderIds            *[]uuid.UUID
}

type NotebookResult struct {
	Notebook  *entity.Notebook
	Notes     []*entity.Note
	FolderIds []uuid.UUID
}

type NotebookCoordinator struct {
	allocator    *SequenceAllocator
	synchronizer *MembershipSynchronizer
}

func NewNotebookCoordinator(allocator *SequenceAllocator, synchronizer *MembershipSynchronizer) *NotebookCoordinator {
	return &NotebookCoordinator{
		allocator:    allocator,
		synchronizer: synchronizer,
	}
}

// ValidateNotes rejects malformed desired notes before anything is written.
func ValidateNotes(notes []DesiredNote) error {
	for i, n := range notes {
		if n.Title != nil && utf8.RuneCountInString(*n.Title) > MaxNoteTitleLength {
			return apperror.Validation(fmt.Sprintf("Note %d: title longer than %d characters", i, MaxNoteTitleLength))
		}
	}
	return nil
}

// Apply runs inside the caller's transaction. Any error leaves the transaction
// to be rolled back by the caller.
func (c *NotebookCoordinator) Apply(ctx context.Context, uow unitofwork.UnitOfWork, notebook *entity.Notebook, change NotebookChange) (*NotebookResult, error) {
	if change.Notes != nil {
		if err := ValidateNotes(*change.Notes); err != nil {
			return nil, err
		}
	}

	// Folder ids are validated before the first write.
	var folderIds []uuid.UUID
	if change.FolderIds != nil {
		ids, err := c.synchronizer.Validate(ctx, uow, FoldersOfNotebook, MembershipRequest{
			OwnerID: notebook.Id,
			UserID:  notebook.UserId,
			Ids:     *change.FolderIds,
		})
		if err != nil {
			return nil, err
		}
		folderIds = ids
	}

	notebook.Title = change.Title
	notebook.Summary = change.Summary
	notebook.Color = change.Color
	notebook.OpenaiVectorStoreId = change.OpenaiVectorStoreId
	notebook.VectorStoreExpiresAt = change.VectorStoreExpiresAt
	if change.IsArchived != nil {
		notebook.IsArchived = *change.IsArchived
	}
	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, apperror.FromStorage(err)
	}

	noteRepo := uow.NoteRepository()
	var notes []*entity.Note
	if change.Notes != nil {
		existing, err := noteRepo.FindAll(ctx,
			specification.ByNotebookID{NotebookID: notebook.Id},
			specification.OrderBySeq{},
		)
		if err != nil {
			return nil, err
		}
		notes, err = c.allocator.Renumber(ctx, uow, notebook.Id, existing, *change.Notes)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		notes, err = noteRepo.FindAll(ctx,
			specification.ByNotebookID{NotebookID: notebook.Id},
			specification.OrderBySeq{},
		)
		if err != nil {
			return nil, err
		}
	}

	if change.FolderIds != nil {
		if _, err := c.synchronizer.Replace(ctx, uow, FoldersOfNotebook, MembershipRequest{
			OwnerID: notebook.Id,
			UserID:  notebook.UserId,
			Ids:     folderIds,
		}); err != nil {
			return nil, err
		}
	} else {
		ids, err := uow.FolderItemRepository(FoldersOfNotebook.Join).ParentIDs(ctx, notebook.Id)
		if err != nil {
			return nil, err
		}
		folderIds = ids
	}

	return &NotebookResult{
		Notebook:  notebook,
		Notes:     notes,
		FolderIds: folderIds,
	}, nil
}
