package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the dotted code of the event (e.g. "notebook.updated").
	EventType() string

	// UserID is the owner whose clients receive the event.
	UserID() uuid.UUID

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	Timestamp() time.Time
}

const (
	NotebookCreated      = "notebook.created"
	NotebookUpdated      = "notebook.updated"
	NotebookDeleted      = "notebook.deleted"
	FolderCreated        = "folder.created"
	FolderUpdated        = "folder.updated"
	FolderDeleted        = "folder.deleted"
	AttachmentCreated    = "attachment.created"
	AttachmentUpdated    = "attachment.updated"
	AttachmentDeleted    = "attachment.deleted"
	FlashcardsChanged    = "flashcards.changed"
	FlashcardsGenerated  = "flashcards.generated"
	QuizzesChanged       = "quizzes.changed"
	QuizzesGenerated     = "quizzes.generated"
	QuizAttemptSubmitted = "quizzes.attempt_submitted"
	MindMapsChanged      = "mindmaps.changed"
	MindMapGenerated     = "mindmaps.generated"
	TranscriptionStored  = "transcription.stored"
)

type BaseEvent struct {
	Type       string
	Owner      uuid.UUID
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, owner uuid.UUID, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Owner: owner, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) UserID() uuid.UUID {
	return e.Owner
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// envelope is the wire form shared by the in-process bus, NATS and websocket clients.
type envelope struct {
	Type       string                 `json:"type"`
	UserID     uuid.UUID              `json:"user_id"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func Marshal(e Event) ([]byte, error) {
	return json.Marshal(envelope{
		Type:       e.EventType(),
		UserID:     e.UserID(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, err
	}
	return BaseEvent{Type: env.Type, Owner: env.UserID, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
