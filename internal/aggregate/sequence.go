package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// MinTemporaryOffset is the smallest shift used while renumbering. Client
// supplied seqs must stay below it.
const MinTemporaryOffset = 1_000_000

// DesiredNote is one entry of a full replacement note list. A nil Id, or an id
// that is not a note of the notebook, creates a new note.
type DesiredNote struct {
	Id      *uuid.UUID
	Title   *string
	Content *string
}

type SequenceAllocator struct{}

func NewSequenceAllocator() *SequenceAllocator {
	return &SequenceAllocator{}
}

// TemporaryOffset returns a shift that moves every existing seq above both the
// current range and the final range [0, desiredLen).
func TemporaryOffset(existing []*entity.Note, desiredLen int) int {
	lo, hi := 0, -1
	for _, n := range existing {
		if n.Seq < lo {
			lo = n.Seq
		}
		if n.Seq > hi {
			hi = n.Seq
		}
	}
	offset := MinTemporaryOffset
	if v := hi - lo + 1; v > offset {
		offset = v
	}
	if v := desiredLen - lo; v > offset {
		offset = v
	}
	return offset
}

type renumberPlan struct {
	ordered []*entity.Note
	created map[uuid.UUID]bool
	deletes []uuid.UUID
}

func planRenumber(notebookID uuid.UUID, existing []*entity.Note, desired []DesiredNote) renumberPlan {
	byID := make(map[uuid.UUID]*entity.Note, len(existing))
	for _, n := range existing {
		byID[n.Id] = n
	}

	plan := renumberPlan{
		ordered: make([]*entity.Note, 0, len(desired)),
		created: make(map[uuid.UUID]bool),
	}
	claimed := make(map[uuid.UUID]bool, len(desired))
	for i, d := range desired {
		var note *entity.Note
		if d.Id != nil && !claimed[*d.Id] {
			if current, ok := byID[*d.Id]; ok {
				note = current
				claimed[note.Id] = true
			}
		}
		if note == nil {
			note = &entity.Note{Id: uuid.New(), NotebookId: notebookID}
			plan.created[note.Id] = true
		}
		note.Title = d.Title
		note.Content = d.Content
		note.Seq = i
		plan.ordered = append(plan.ordered, note)
	}

	for _, n := range existing {
		if !claimed[n.Id] {
			plan.deletes = append(plan.deletes, n.Id)
		}
	}
	return plan
}

// Renumber replaces the notes of a notebook with desired, in order. Existing
// notes are first shifted out of the way in one statement, so no write can
// observe two notes sharing a seq.
func (a *SequenceAllocator) Renumber(ctx context.Context, uow unitofwork.UnitOfWork, notebookID uuid.UUID, existing []*entity.Note, desired []DesiredNote) ([]*entity.Note, error) {
	offset := TemporaryOffset(existing, len(desired))
	plan := planRenumber(notebookID, existing, desired)
	repo := uow.NoteRepository()

	if len(existing) > 0 {
		if err := repo.ShiftSeqs(ctx, notebookID, offset); err != nil {
			return nil, apperror.FromStorage(err)
		}
	}
	if err := repo.DeleteByIDs(ctx, plan.deletes); err != nil {
		return nil, apperror.FromStorage(err)
	}
	for _, note := range plan.ordered {
		var err error
		if plan.created[note.Id] {
			err = repo.Create(ctx, note)
		} else {
			err = repo.Update(ctx, note)
		}
		if err != nil {
			return nil, apperror.FromStorage(err)
		}
	}
	return plan.ordered, nil
}

// EffectiveSeqs fills missing client seqs with the list position.
func EffectiveSeqs(seqs []*int) []int {
	res := make([]int, len(seqs))
	for i, s := range seqs {
		if s != nil {
			res[i] = *s
		} else {
			res[i] = i
		}
	}
	return res
}

// ValidateClientSeqs rejects negative, reserved or repeated seq values.
func ValidateClientSeqs(seqs []int) error {
	seen := make(map[int]int, len(seqs))
	var outOfRange []int
	for _, s := range seqs {
		if s < 0 || s >= MinTemporaryOffset {
			outOfRange = append(outOfRange, s)
		}
		seen[s]++
	}
	if len(outOfRange) > 0 {
		return apperror.Validation(fmt.Sprintf("Note seq out of range [0, %d): %s", MinTemporaryOffset, joinInts(outOfRange)))
	}

	var dups []int
	for s, count := range seen {
		if count > 1 {
			dups = append(dups, s)
		}
	}
	if len(dups) > 0 {
		sort.Ints(dups)
		return apperror.Validation("Duplicate note seq values: " + joinInts(dups))
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
