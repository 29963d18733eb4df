package aggregate

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Side says which end of the join table the caller owns.
type Side int

const (
	// ParentSide replaces the members of a folder.
	ParentSide Side = iota
	// ChildSide replaces the folders an item belongs to.
	ChildSide
)

// Target is the ownership view of a referenced entity.
type Target struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	NotebookId *uuid.UUID
}

type Resolver func(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]Target, error)

// Relation describes one many-to-many membership as seen from the side being edited.
type Relation struct {
	Label   string
	Join    contract.JoinTable
	Side    Side
	Resolve Resolver
}

var (
	FoldersOfNotebook = Relation{Label: "Folders", Join: contract.NotebookFolderItems, Side: ChildSide, Resolve: resolveNotebookFolders}
	NotebooksOfFolder = Relation{Label: "Notebooks", Join: contract.NotebookFolderItems, Side: ParentSide, Resolve: resolveNotebooks}

	FlashcardsOfFolder = Relation{Label: "Flashcards", Join: contract.FlashcardFolderItems, Side: ParentSide, Resolve: resolveFlashcards}
	FoldersOfFlashcard = Relation{Label: "Folders", Join: contract.FlashcardFolderItems, Side: ChildSide, Resolve: resolveFlashcardFolders}

	QuestionsOfFolder = Relation{Label: "Questions", Join: contract.QuizFolderItems, Side: ParentSide, Resolve: resolveQuizQuestions}
	FoldersOfQuestion = Relation{Label: "Folders", Join: contract.QuizFolderItems, Side: ChildSide, Resolve: resolveQuizFolders}
)

// MembershipRequest is one replacement call. NotebookID, when set, is the
// scope every referenced entity must share.
type MembershipRequest struct {
	OwnerID    uuid.UUID
	UserID     uuid.UUID
	NotebookID *uuid.UUID
	Ids        []uuid.UUID
}

type MembershipSynchronizer struct{}

func NewMembershipSynchronizer() *MembershipSynchronizer {
	return &MembershipSynchronizer{}
}

// Dedupe collapses repeated ids and keeps the first occurrence order.
func Dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	res := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}

// Validate checks every id without writing and returns the de-duplicated list.
func (s *MembershipSynchronizer) Validate(ctx context.Context, uow unitofwork.UnitOfWork, rel Relation, req MembershipRequest) ([]uuid.UUID, error) {
	ids := Dedupe(req.Ids)
	if len(ids) == 0 {
		return ids, nil
	}

	targets, err := rel.Resolve(ctx, uow, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]Target, len(targets))
	for _, t := range targets {
		byID[t.Id] = t
	}

	var missing, foreign []uuid.UUID
	for _, id := range ids {
		t, ok := byID[id]
		switch {
		case !ok || t.UserId != req.UserID:
			missing = append(missing, id)
		case req.NotebookID != nil && (t.NotebookId == nil || *t.NotebookId != *req.NotebookID):
			foreign = append(foreign, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.ValidationIds(rel.Label+" not found", missing)
	}
	if len(foreign) > 0 {
		return nil, apperror.ValidationIds(rel.Label+" belong to a different notebook", foreign)
	}
	return ids, nil
}

// Replace validates the ids and then replaces the membership wholesale.
func (s *MembershipSynchronizer) Replace(ctx context.Context, uow unitofwork.UnitOfWork, rel Relation, req MembershipRequest) ([]uuid.UUID, error) {
	ids, err := s.Validate(ctx, uow, rel, req)
	if err != nil {
		return nil, err
	}

	repo := uow.FolderItemRepository(rel.Join)
	if rel.Side == ParentSide {
		err = repo.ReplaceForParent(ctx, req.OwnerID, ids)
	} else {
		err = repo.ReplaceForChild(ctx, req.OwnerID, ids)
	}
	if err != nil {
		return nil, apperror.FromStorage(err)
	}
	return ids, nil
}

func resolveNotebookFolders(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]Target, error) {
	folders, err := uow.NotebookFolderRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	res := make([]Target, len(folders))
	for i, f := range folders {
		res[i] = Target{Id: f.Id, UserId: f.UserId}
	}
	return res, nil
}

func resolveNotebooks(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]Target, error) {
	notebooks, err := uow.NotebookRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	res := make([]Target, len(notebooks))
	for i, n := range notebooks {
		res[i] = Target{Id: n.Id, UserId: n.UserId}
	}
	return res, nil
}

func resolveFlashcards(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]Target, error) {
	cards, err := uow.FlashcardRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	res := make([]Target, len(cards))
	for i, c := range cards {
		nb := c.NotebookId
		res[i] = Target{Id: c.Id, UserId: c.UserId, NotebookId: &nb}
	}
	return res, nil
}

func resolveFlashcardFolders(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]Target, error) {
	folders, err := uow.FlashcardFolderRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	res := make([]Target, len(folders))
	for i, f := range folders {
		nb := f.NotebookId
		res[i] = Target{Id: f.Id, UserId: f.UserId, NotebookId: &nb}
	}
	return res, nil
}

func resolveQuizQuestions(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]Target, error) {
	questions, err := uow.QuizQuestionRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	res := make([]Target, len(questions))
	for i, q := range questions {
		nb := q.NotebookId
		res[i] = Target{Id: q.Id, UserId: q.UserId, NotebookId: &nb}
	}
	return res, nil
}

func resolveQuizFolders(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]Target, error) {
	folders, err := uow.QuizFolderRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	res := make([]Target, len(folders))
	for i, f := range folders {
		nb := f.NotebookId
		res[i] = Target{Id: f.Id, UserId: f.UserId, NotebookId: &nb}
	}
	return res, nil
}
