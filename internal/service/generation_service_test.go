package service

import (
	"testing"

	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flashcardsReply = `{"cards":[
	{"question":"What is inertia?","answer":"Resistance to change in motion"},
	{"question":"  ","answer":"dropped"},
	{"question":"F = ?","answer":"ma"}
]}`

const quizReply = "```json\n" + `{"questions":[
	{"question":"Unit of force?","options":["Joule","Newton","Watt"],"correct_index":1,"hint":"Isaac","explanation":"N = kg·m/s²"}
]}` + "\n```"

const mindMapReply = `{"title":"Mechanics","root":{"topic":"Newton's laws","children":[
	{"topic":"First law","children":[{"topic":"Inertia"}]},
	{"topic":"Second law"}
]}}`

func TestGenerateFlashcardsIntoNewFolder(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb, a := e.linkedNotebook(u.Id)
	e.llm.reply = flashcardsReply

	res, err := e.generation().GenerateFlashcards(e.ctx, u.Id, &dto.GenerateRequest{
		NotebookId:    nb.Id,
		AttachmentIds: []uuid.UUID{a.Id},
		Count:         intPtr(5),
		Focus:         "laws",
		FolderName:    "Generated",
	})
	require.NoError(t, err)

	require.Len(t, res.Flashcards, 2)
	assert.Equal(t, "What is inertia?", res.Flashcards[0].Question)
	require.NotNil(t, res.Folder)
	assert.Equal(t, "Generated", res.Folder.Name)
	assert.Len(t, res.Folder.FlashcardIds, 2)
	assert.Equal(t, []uuid.UUID{res.Folder.Id}, res.Flashcards[0].FolderIds)
	require.NotNil(t, res.Flashcards[0].Meta)
	assert.Equal(t, []string{"lecture.pdf"}, res.Flashcards[0].Meta.Sources)
	assert.Equal(t, "laws", res.Flashcards[0].Meta.Focus)

	require.Len(t, e.llm.calls, 1)
	call := e.llm.calls[0]
	assert.Equal(t, []string{"vs_1"}, call.VectorStoreIDs)
	require.NotNil(t, call.Schema)
	assert.Equal(t, "flashcards", call.Schema.Name)
	assert.Contains(t, e.llm.history[0][1].Content, "5")
	assert.Equal(t, []string{events.FlashcardsGenerated}, e.publisher.types())
}

func TestGenerateFlashcardsAppendsToExistingFolder(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb, _ := e.linkedNotebook(u.Id)
	svc := e.flashcards()

	existing, err := svc.CreateCard(e.ctx, u.Id, &dto.CreateFlashcardRequest{NotebookId: nb.Id, Question: "old", Answer: "old"})
	require.NoError(t, err)
	folder, err := svc.CreateFolder(e.ctx, u.Id, &dto.CreateFlashcardFolderRequest{
		NotebookId:   nb.Id,
		Name:         "Deck",
		FlashcardIds: []uuid.UUID{existing.Id},
	})
	require.NoError(t, err)

	e.llm.reply = flashcardsReply
	res, err := e.generation().GenerateFlashcards(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id, FolderId: &folder.Id})
	require.NoError(t, err)
	require.NotNil(t, res.Folder)
	assert.Len(t, res.Folder.FlashcardIds, 3)
	assert.Equal(t, existing.Id, res.Folder.FlashcardIds[0])
}

func TestGenerateRejectsUnlinkedAttachments(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb, _ := e.linkedNotebook(u.Id)
	unlinked := e.attachment(u.Id, nb.Id, "raw.pdf")

	_, err := e.generation().GenerateQuiz(e.ctx, u.Id, &dto.GenerateRequest{
		NotebookId:    nb.Id,
		AttachmentIds: []uuid.UUID{unlinked.Id},
	})
	require.Error(t, err)
	var ids []string
	if appErr, ok := err.(*apperror.Error); ok {
		ids = appErr.Ids
	}
	assert.Equal(t, []string{unlinked.Id.String()}, ids)
	assert.Empty(t, e.llm.calls)
}

func TestGenerateWithoutLinkedFiles(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb := e.notebook(u.Id)

	_, err := e.generation().GenerateMindMap(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestGenerateUpstreamFailuresPersistNothing(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb, _ := e.linkedNotebook(u.Id)
	svc := e.generation()

	e.llm.err = errUpstream
	_, err := svc.GenerateFlashcards(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id, FolderName: "x"})
	assert.True(t, apperror.Is(err, apperror.KindUpstream))

	e.llm.err = nil
	e.llm.reply = `{"cards":[]}`
	_, err = svc.GenerateFlashcards(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id, FolderName: "x"})
	assert.True(t, apperror.Is(err, apperror.KindUpstream))

	e.llm.reply = "not json"
	_, err = svc.GenerateQuiz(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id})
	assert.True(t, apperror.Is(err, apperror.KindUpstream))

	cards, err := e.uow().FlashcardRepository().Count(e.ctx, specification.ByNotebookID{NotebookID: nb.Id})
	require.NoError(t, err)
	assert.Zero(t, cards)
	folders, err := e.uow().FlashcardFolderRepository().Count(e.ctx, specification.ByNotebookID{NotebookID: nb.Id})
	require.NoError(t, err)
	assert.Zero(t, folders)
	assert.Empty(t, e.publisher.types())
}

func TestGenerateQuiz(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb, _ := e.linkedNotebook(u.Id)
	e.llm.reply = quizReply

	res, err := e.generation().GenerateQuiz(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id, FolderName: "Quiz"})
	require.NoError(t, err)
	require.Len(t, res.Questions, 1)
	q := res.Questions[0]
	assert.Equal(t, "Unit of force?", q.Question)
	assert.Equal(t, "Newton", q.Options[q.CorrectIndex])
	require.NotNil(t, q.Hint)
	assert.Equal(t, "Isaac", *q.Hint)
	require.NotNil(t, res.Folder)
	assert.Equal(t, []uuid.UUID{q.Id}, res.Folder.QuestionIds)
	assert.Equal(t, []string{events.QuizzesGenerated}, e.publisher.types())
}

func TestGenerateMindMap(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb, _ := e.linkedNotebook(u.Id)
	e.llm.reply = mindMapReply

	res, err := e.generation().GenerateMindMap(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id})
	require.NoError(t, err)
	assert.Equal(t, "Mechanics", res.Title)
	require.NotNil(t, res.Data.NodeData)
	assert.True(t, res.Data.NodeData.Root)
	assert.Equal(t, "Newton's laws", res.Data.NodeData.Topic)
	require.Len(t, res.Data.NodeData.Children, 2)
	assert.Equal(t, "Inertia", res.Data.NodeData.Children[0].Children[0].Topic)
	assert.Equal(t, []string{events.MindMapGenerated}, e.publisher.types())

	e.publisher.events = nil
	res, err = e.generation().GenerateMindMap(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id, FolderName: "Chapter 1"})
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1", res.Title)
}

func TestGenerateUnknownModelKey(t *testing.T) {
	e := newEnv(t)
	u := e.user()
	nb, _ := e.linkedNotebook(u.Id)

	_, err := e.generation().GenerateFlashcards(e.ctx, u.Id, &dto.GenerateRequest{NotebookId: nb.Id, ModelKey: "gpt-99"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
