package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iZhuoxx/AI-web/internal/aggregate"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/internal/pkg/testdb"
	"github.com/iZhuoxx/AI-web/internal/repository/memory"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/pkg/ai/registry"
	"github.com/iZhuoxx/AI-web/pkg/events"
	"github.com/iZhuoxx/AI-web/pkg/llm"
	"github.com/iZhuoxx/AI-web/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testRegistry = `
[model_defaults]
title = "fast"
flashcards = "fast"
quiz = "fast"
quizSummary = "fast"
mindmap = "fast"

[models.fast]
id = "gpt-test"
label = "Fast"

[models.reasoner]
id = "o-test"
supports_temperature = false

[models.whisper]
id = "whisper-1"

[tools.file_search]
type = "file_search"
label = "Files"

[tool_defaults]
chat = ["file_search"]
`

var errUpstream = errors.New("upstream down")

// fakeLLM replays canned replies and records what it was asked.
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   []llm.Options
	history [][]llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, llm.Apply(options...))
	f.history = append(f.history, history)
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{llm.User(prompt)}, options...)
}

type fakeStorage struct {
	mu        sync.Mutex
	deleted   []string
	downloads int
	deleteErr error
}

func (f *fakeStorage) PresignUpload(ctx context.Context, key string, contentType string) (*storage.PresignedRequest, error) {
	return &storage.PresignedRequest{
		Method:  "PUT",
		URL:     "https://bucket.test/" + key,
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}

func (f *fakeStorage) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	return "https://bucket.test/" + key + "?sig=1", nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeVectorStores struct {
	mu      sync.Mutex
	created []string
	added   []string
	removed []string
	files   []string
	err     error
}

func (f *fakeVectorStores) CreateVectorStore(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, name)
	return "vs_" + name, nil
}

func (f *fakeVectorStores) AddFile(ctx context.Context, vectorStoreID, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, vectorStoreID+"/"+fileID)
	return nil
}

func (f *fakeVectorStores) RemoveFile(ctx context.Context, vectorStoreID, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, vectorStoreID+"/"+fileID)
	return nil
}

func (f *fakeVectorStores) DeleteFile(ctx context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.files = append(f.files, fileID)
	return nil
}

type fakeTranscriber struct {
	result *llm.Transcription
	err    error
	last   llm.TranscriptionRequest
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, req llm.TranscriptionRequest) (*llm.Transcription, error) {
	f.last = req
	return f.result, f.err
}

// recordingPublisher keeps every published event type.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type env struct {
	t            *testing.T
	ctx          context.Context
	db           *gorm.DB
	factory      unitofwork.RepositoryFactory
	synchronizer *aggregate.MembershipSynchronizer
	coordinator  *aggregate.NotebookCoordinator
	registry     *registry.Registry
	llm          *fakeLLM
	storage      *fakeStorage
	vectors      *fakeVectorStores
	transcriber  *fakeTranscriber
	cache        *memory.DownloadURLCache
	publisher    *recordingPublisher
	logger       logger.ILogger
}

func newEnv(t *testing.T) *env {
	db := testdb.New(t)
	reg, err := registry.Parse(testRegistry)
	require.NoError(t, err)
	synchronizer := aggregate.NewMembershipSynchronizer()
	return &env{
		t:            t,
		ctx:          context.Background(),
		db:           db,
		factory:      unitofwork.NewRepositoryFactory(db),
		synchronizer: synchronizer,
		coordinator:  aggregate.NewNotebookCoordinator(aggregate.NewSequenceAllocator(), synchronizer),
		registry:     reg,
		llm:          &fakeLLM{},
		storage:      &fakeStorage{},
		vectors:      &fakeVectorStores{},
		transcriber:  &fakeTranscriber{},
		cache:        memory.NewDownloadURLCache(time.Minute),
		publisher:    &recordingPublisher{},
		logger:       logger.NewNopLogger(),
	}
}

func (e *env) uow() unitofwork.UnitOfWork {
	return unitofwork.NewUnitOfWork(e.db)
}

func (e *env) notebooks() INotebookService {
	return NewNotebookService(e.factory, e.coordinator, e.synchronizer, e.storage, e.cache, e.llm, e.registry, e.publisher, e.logger)
}

func (e *env) attachments() *attachmentService {
	return NewAttachmentService(e.factory, e.storage, e.vectors, e.cache, 15*time.Minute, e.publisher, e.logger).(*attachmentService)
}

func (e *env) flashcards() IFlashcardService {
	return NewFlashcardService(e.factory, e.synchronizer, e.publisher)
}

func (e *env) quizzes() IQuizService {
	return NewQuizService(e.factory, e.synchronizer, e.llm, e.registry, e.publisher, e.logger)
}

func (e *env) generation() IGenerationService {
	return NewGenerationService(e.factory, e.synchronizer, e.llm, e.registry, e.publisher, e.logger)
}

func (e *env) audio() IAudioService {
	return NewAudioService(e.factory, e.transcriber, e.registry, e.publisher, e.logger)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func (e *env) user() *entity.User {
	u := &entity.User{Email: uuid.NewString() + "@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(e.t, e.uow().UserRepository().Create(e.ctx, u))
	return u
}

func (e *env) notebook(userId uuid.UUID) *entity.Notebook {
	nb := &entity.Notebook{UserId: userId, Title: strPtr("notebook")}
	require.NoError(e.t, e.uow().NotebookRepository().Create(e.ctx, nb))
	return nb
}

// linkedNotebook is a notebook with a vector store and one linked attachment.
func (e *env) linkedNotebook(userId uuid.UUID) (*entity.Notebook, *entity.Attachment) {
	nb := &entity.Notebook{UserId: userId, Title: strPtr("linked"), OpenaiVectorStoreId: strPtr("vs_1")}
	require.NoError(e.t, e.uow().NotebookRepository().Create(e.ctx, nb))
	a := e.attachment(userId, nb.Id, "lecture.pdf")
	a.OpenaiFileId = strPtr("file_1")
	require.NoError(e.t, e.uow().AttachmentRepository().Update(e.ctx, a))
	return nb, a
}

func (e *env) attachment(userId, notebookId uuid.UUID, filename string) *entity.Attachment {
	key := "users/" + userId.String() + "/" + filename
	a := &entity.Attachment{
		UserId:              userId,
		NotebookId:          notebookId,
		Filename:            filename,
		S3ObjectKey:         &key,
		EnableFileSearch:    true,
		TranscriptionStatus: entity.TranscriptionStatusNone,
	}
	require.NoError(e.t, e.uow().AttachmentRepository().Create(e.ctx, a))
	return a
}

func (e *env) question(userId, notebookId uuid.UUID, q string, options []string, correct int) *entity.QuizQuestion {
	question := &entity.QuizQuestion{
		UserId:       userId,
		NotebookId:   notebookId,
		Question:     q,
		Options:      options,
		CorrectIndex: correct,
	}
	require.NoError(e.t, e.uow().QuizQuestionRepository().Create(e.ctx, question))
	return question
}

func (e *env) quizFolder(userId, notebookId uuid.UUID, name string) *entity.QuizFolder {
	folder := &entity.QuizFolder{UserId: userId, NotebookId: notebookId, Name: name}
	require.NoError(e.t, e.uow().QuizFolderRepository().Create(e.ctx, folder))
	return folder
}
