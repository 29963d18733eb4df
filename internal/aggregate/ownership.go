package aggregate

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type DeleteAction int

const (
	// Cascade deletes the child rows with their parent.
	Cascade DeleteAction = iota
	// SetNull clears the foreign key and keeps the child.
	SetNull
)

// Ownership is one parent/child edge of the delete graph. JoinRow marks
// association tables whose rows have no id of their own.
type Ownership struct {
	Child      string
	Parent     string
	ForeignKey string
	Action     DeleteAction
	JoinRow    bool
}

// OwnershipTable lists every foreign key of the schema. Folders do not own
// their items: deleting either side only removes the join rows.
var OwnershipTable = []Ownership{
	{Child: "memberships", Parent: "users", ForeignKey: "user_id"},
	{Child: "notebooks", Parent: "users", ForeignKey: "user_id"},
	{Child: "notebook_folders", Parent: "users", ForeignKey: "user_id"},
	{Child: "attachments", Parent: "users", ForeignKey: "user_id"},
	{Child: "transcription_sessions", Parent: "users", ForeignKey: "user_id"},
	{Child: "flashcard_folders", Parent: "users", ForeignKey: "user_id"},
	{Child: "flashcards", Parent: "users", ForeignKey: "user_id"},
	{Child: "quiz_folders", Parent: "users", ForeignKey: "user_id"},
	{Child: "quiz_questions", Parent: "users", ForeignKey: "user_id"},
	{Child: "quiz_attempts", Parent: "users", ForeignKey: "user_id"},
	{Child: "mindmaps", Parent: "users", ForeignKey: "user_id"},

	{Child: "notes", Parent: "notebooks", ForeignKey: "notebook_id"},
	{Child: "attachments", Parent: "notebooks", ForeignKey: "notebook_id"},
	{Child: "transcription_sessions", Parent: "notebooks", ForeignKey: "notebook_id", Action: SetNull},
	{Child: "flashcard_folders", Parent: "notebooks", ForeignKey: "notebook_id"},
	{Child: "flashcards", Parent: "notebooks", ForeignKey: "notebook_id"},
	{Child: "quiz_folders", Parent: "notebooks", ForeignKey: "notebook_id"},
	{Child: "quiz_questions", Parent: "notebooks", ForeignKey: "notebook_id"},
	{Child: "mindmaps", Parent: "notebooks", ForeignKey: "notebook_id"},

	{Child: "transcription_sessions", Parent: "attachments", ForeignKey: "attachment_id"},
	{Child: "transcription_segments", Parent: "transcription_sessions", ForeignKey: "session_id"},
	{Child: "quiz_attempts", Parent: "quiz_folders", ForeignKey: "folder_id"},

	{Child: contract.NotebookFolderItems.Name, Parent: "notebook_folders", ForeignKey: contract.NotebookFolderItems.ParentColumn, JoinRow: true},
	{Child: contract.NotebookFolderItems.Name, Parent: "notebooks", ForeignKey: contract.NotebookFolderItems.ChildColumn, JoinRow: true},
	{Child: contract.FlashcardFolderItems.Name, Parent: "flashcard_folders", ForeignKey: contract.FlashcardFolderItems.ParentColumn, JoinRow: true},
	{Child: contract.FlashcardFolderItems.Name, Parent: "flashcards", ForeignKey: contract.FlashcardFolderItems.ChildColumn, JoinRow: true},
	{Child: contract.QuizFolderItems.Name, Parent: "quiz_folders", ForeignKey: contract.QuizFolderItems.ParentColumn, JoinRow: true},
	{Child: contract.QuizFolderItems.Name, Parent: "quiz_questions", ForeignKey: contract.QuizFolderItems.ChildColumn, JoinRow: true},
}

// CascadeReport counts deleted rows per table.
type CascadeReport map[string]int64

type Cascader struct {
	edges map[string][]Ownership
}

func NewCascader(table []Ownership) *Cascader {
	edges := make(map[string][]Ownership)
	for _, o := range table {
		edges[o.Parent] = append(edges[o.Parent], o)
	}
	return &Cascader{edges: edges}
}

var defaultCascader = NewCascader(OwnershipTable)

// CascadeDelete deletes ids from table and, depth first, everything they own,
// using the default ownership table.
func CascadeDelete(ctx context.Context, uow unitofwork.UnitOfWork, table string, ids []uuid.UUID) (CascadeReport, error) {
	return defaultCascader.Delete(ctx, uow, table, ids)
}

func (c *Cascader) Delete(ctx context.Context, uow unitofwork.UnitOfWork, table string, ids []uuid.UUID) (CascadeReport, error) {
	report := CascadeReport{}
	if err := c.delete(ctx, uow.CascadeRepository(), table, ids, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Cascader) delete(ctx context.Context, repo contract.CascadeRepository, table string, ids []uuid.UUID, report CascadeReport) error {
	if len(ids) == 0 {
		return nil
	}
	for _, edge := range c.edges[table] {
		switch {
		case edge.Action == SetNull:
			if err := repo.Nullify(ctx, edge.Child, edge.ForeignKey, ids); err != nil {
				return err
			}
		case edge.JoinRow:
			n, err := repo.DeleteWhere(ctx, edge.Child, edge.ForeignKey, ids)
			if err != nil {
				return err
			}
			report[edge.Child] += n
		default:
			childIDs, err := repo.PluckIDs(ctx, edge.Child, edge.ForeignKey, ids)
			if err != nil {
				return err
			}
			if err := c.delete(ctx, repo, edge.Child, childIDs, report); err != nil {
				return err
			}
		}
	}
	n, err := repo.DeleteWhere(ctx, table, "id", ids)
	if err != nil {
		return err
	}
	report[table] += n
	return nil
}
