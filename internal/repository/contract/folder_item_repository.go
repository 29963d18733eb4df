package contract

import (
	"context"

	"github.com/google/uuid"
)

// JoinTable describes a folder/item association table.
type JoinTable struct {
	Name         string
	ParentColumn string
	ChildColumn  string
}

var (
	NotebookFolderItems  = JoinTable{Name: "notebook_folder_items", ParentColumn: "folder_id", ChildColumn: "notebook_id"}
	FlashcardFolderItems = JoinTable{Name: "flashcard_folder_items", ParentColumn: "folder_id", ChildColumn: "flashcard_id"}
	QuizFolderItems      = JoinTable{Name: "quiz_folder_items", ParentColumn: "folder_id", ChildColumn: "question_id"}
)

type FolderItemRepository interface {
	// ChildIDs returns the members of a folder in display order.
	ChildIDs(ctx context.Context, parentId uuid.UUID) ([]uuid.UUID, error)
	ParentIDs(ctx context.Context, childId uuid.UUID) ([]uuid.UUID, error)
	ChildIDsByParents(ctx context.Context, parentIds []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	ParentIDsByChildren(ctx context.Context, childIds []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)

	// ReplaceForParent rewrites the folder's rows with seq equal to the position in childIds.
	ReplaceForParent(ctx context.Context, parentId uuid.UUID, childIds []uuid.UUID) error
	// ReplaceForChild keeps the seq of surviving rows and appends new rows at the end of each folder.
	ReplaceForChild(ctx context.Context, childId uuid.UUID, parentIds []uuid.UUID) error
}
