package aggregate

import (
	"testing"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTemporaryOffset(t *testing.T) {
	notes := func(seqs ...int) []*entity.Note {
		res := make([]*entity.Note, len(seqs))
		for i, s := range seqs {
			res[i] = &entity.Note{Seq: s}
		}
		return res
	}

	assert.Equal(t, MinTemporaryOffset, TemporaryOffset(nil, 0))
	assert.Equal(t, MinTemporaryOffset, TemporaryOffset(notes(0, 1, 2), 3))
	assert.Equal(t, 2_000_001, TemporaryOffset(notes(0, 2_000_000), 2))
	assert.Equal(t, 3_000_000, TemporaryOffset(notes(0), 3_000_000))
	// Negative legacy seqs still land above the final range.
	assert.Equal(t, 1_000_005, TemporaryOffset(notes(-5, 1), 1_000_000))
}

func TestRenumberSwapsOrder(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	a := f.note(nb.Id, 0, "A")
	b := f.note(nb.Id, 1, "B")

	err := f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := NewSequenceAllocator().Renumber(f.ctx, uow, nb.Id, f.notesIn(uow, nb.Id), []DesiredNote{
			{Id: &b.Id, Title: strPtr("B")},
			{Id: &a.Id, Title: strPtr("A")},
		})
		return err
	})
	require.NoError(t, err)

	got := f.notes(nb.Id)
	require.Len(t, got, 2)
	assert.Equal(t, b.Id, got[0].Id)
	assert.Equal(t, 0, got[0].Seq)
	assert.Equal(t, a.Id, got[1].Id)
	assert.Equal(t, 1, got[1].Seq)
}

func TestRenumberMixedCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	a := f.note(nb.Id, 0, "old")

	err := f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := NewSequenceAllocator().Renumber(f.ctx, uow, nb.Id, f.notesIn(uow, nb.Id), []DesiredNote{
			{Id: &a.Id, Title: strPtr("x")},
			{Title: strPtr("y")},
		})
		return err
	})
	require.NoError(t, err)

	got := f.notes(nb.Id)
	require.Len(t, got, 2)
	assert.Equal(t, a.Id, got[0].Id)
	assert.Equal(t, "x", *got[0].Title)
	assert.Equal(t, 0, got[0].Seq)
	assert.Equal(t, a.CreatedAt.Unix(), got[0].CreatedAt.Unix())
	assert.NotEqual(t, a.Id, got[1].Id)
	assert.Equal(t, "y", *got[1].Title)
	assert.Equal(t, 1, got[1].Seq)
}

func TestRenumberUnknownIdCreatesFreshNote(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	other := f.notebook(u.Id)
	foreign := f.note(other.Id, 0, "foreign")
	unknown := uuid.New()

	err := f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := NewSequenceAllocator().Renumber(f.ctx, uow, nb.Id, nil, []DesiredNote{
			{Id: &unknown, Title: strPtr("one")},
			{Id: &foreign.Id, Title: strPtr("two")},
		})
		return err
	})
	require.NoError(t, err)

	got := f.notes(nb.Id)
	require.Len(t, got, 2)
	assert.NotEqual(t, unknown, got[0].Id)
	assert.NotEqual(t, foreign.Id, got[1].Id)

	// The other notebook's note is untouched.
	others := f.notes(other.Id)
	require.Len(t, others, 1)
	assert.Equal(t, "foreign", *others[0].Title)
}

func TestRenumberRepeatedIdOnlyMatchesOnce(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	a := f.note(nb.Id, 0, "A")

	err := f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := NewSequenceAllocator().Renumber(f.ctx, uow, nb.Id, f.notesIn(uow, nb.Id), []DesiredNote{
			{Id: &a.Id, Title: strPtr("first")},
			{Id: &a.Id, Title: strPtr("second")},
		})
		return err
	})
	require.NoError(t, err)

	got := f.notes(nb.Id)
	require.Len(t, got, 2)
	assert.Equal(t, a.Id, got[0].Id)
	assert.NotEqual(t, a.Id, got[1].Id)
}

func TestRenumberEmptyListDeletesAll(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	f.note(nb.Id, 0, "A")
	f.note(nb.Id, 1, "B")

	err := f.inTx(func(uow unitofwork.UnitOfWork) error {
		_, err := NewSequenceAllocator().Renumber(f.ctx, uow, nb.Id, f.notesIn(uow, nb.Id), []DesiredNote{})
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, f.notes(nb.Id))
}

func TestDirectSeqCollisionIsConstraintViolation(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	nb := f.notebook(u.Id)
	f.note(nb.Id, 0, "A")

	dup := &entity.Note{NotebookId: nb.Id, Seq: 0}
	err := f.uow().NoteRepository().Create(f.ctx, dup)
	require.Error(t, err)
	assert.True(t, apperror.Is(apperror.FromStorage(err), apperror.KindConstraint))
}

func TestValidateClientSeqs(t *testing.T) {
	assert.NoError(t, ValidateClientSeqs([]int{2, 0, 1}))
	assert.NoError(t, ValidateClientSeqs(nil))

	err := ValidateClientSeqs([]int{0, 3, 3, 1, 0})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "Duplicate note seq values: 0, 3", err.Error())

	err = ValidateClientSeqs([]int{-1, MinTemporaryOffset})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestEffectiveSeqs(t *testing.T) {
	five := 5
	assert.Equal(t, []int{0, 5, 2}, EffectiveSeqs([]*int{nil, &five, nil}))
}

func TestRenumberKeepsSeqsContiguous(t *testing.T) {
	f := newFixture(t)
	u := f.user()

	rapid.Check(t, func(rt *rapid.T) {
		nb := f.notebook(u.Id)
		existingCount := rapid.IntRange(0, 8).Draw(rt, "existing")
		for i := 0; i < existingCount; i++ {
			f.note(nb.Id, i*3, "n")
		}
		existing := f.notes(nb.Id)

		// Pick a random subset of the existing ids in random order, mixed with new notes.
		perm := rapid.Permutation(idsOf(existing)).Draw(rt, "perm")
		keep := rapid.IntRange(0, len(perm)).Draw(rt, "keep")
		fresh := rapid.IntRange(0, 5).Draw(rt, "fresh")

		var desired []DesiredNote
		for _, id := range perm[:keep] {
			id := id
			desired = append(desired, DesiredNote{Id: &id, Title: strPtr(id.String())})
		}
		for i := 0; i < fresh; i++ {
			pos := rapid.IntRange(0, len(desired)).Draw(rt, "pos")
			desired = append(desired[:pos], append([]DesiredNote{{Title: strPtr("new")}}, desired[pos:]...)...)
		}

		err := f.inTx(func(uow unitofwork.UnitOfWork) error {
			_, err := NewSequenceAllocator().Renumber(f.ctx, uow, nb.Id, f.notesIn(uow, nb.Id), desired)
			return err
		})
		if err != nil {
			rt.Fatalf("renumber: %v", err)
		}

		got := f.notes(nb.Id)
		if len(got) != len(desired) {
			rt.Fatalf("got %d notes, want %d", len(got), len(desired))
		}
		for i, n := range got {
			if n.Seq != i {
				rt.Fatalf("note %d has seq %d", i, n.Seq)
			}
			if desired[i].Id != nil && *desired[i].Id != n.Id {
				rt.Fatalf("note %d lost its identity", i)
			}
		}
	})
}

func (f *fixture) notesIn(uow unitofwork.UnitOfWork, notebookID uuid.UUID) []*entity.Note {
	notes, err := uow.NoteRepository().FindAll(f.ctx, byNotebookOrdered(notebookID)...)
	require.NoError(f.t, err)
	return notes
}
