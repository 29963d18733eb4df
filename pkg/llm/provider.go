package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

func System(content string) Message { return Message{Role: "system", Content: content} }
func User(content string) Message   { return Message{Role: "user", Content: content} }

// JSONSchema asks the model for structured output matching Schema.
type JSONSchema struct {
	Name   string
	Schema map[string]interface{}
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature     *float64
	MaxOutputTokens int
	Model           string
	Schema          *JSONSchema
	// VectorStoreIDs enables the file_search tool over these stores.
	VectorStoreIDs []string
	// FileIDs are passed as input_file parts of the user message.
	FileIDs []string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxOutputTokens(n int) Option {
	return func(o *Options) {
		o.MaxOutputTokens = n
	}
}

func WithSchema(name string, schema map[string]interface{}) Option {
	return func(o *Options) {
		o.Schema = &JSONSchema{Name: name, Schema: schema}
	}
}

func WithFileSearch(vectorStoreIDs ...string) Option {
	return func(o *Options) {
		o.VectorStoreIDs = append(o.VectorStoreIDs, vectorStoreIDs...)
	}
}

func WithFiles(fileIDs ...string) Option {
	return func(o *Options) {
		o.FileIDs = append(o.FileIDs, fileIDs...)
	}
}

func Apply(options ...Option) Options {
	var o Options
	for _, opt := range options {
		opt(&o)
	}
	return o
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the text reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

type TranscriptionRequest struct {
	Filename    string
	ContentType string
	Content     []byte
	Model       string
	Language    string
	Prompt      string
}

type TranscriptionSegment struct {
	Id         *string
	Start      float64
	End        float64
	Text       string
	Confidence *float64
}

type Transcription struct {
	Text        string
	Language    string
	DurationSec float64
	Model       string
	Segments    []TranscriptionSegment
}

type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*Transcription, error)
}

// VectorStores manages the provider-side retrieval stores backing notebooks.
type VectorStores interface {
	CreateVectorStore(ctx context.Context, name string) (string, error)
	AddFile(ctx context.Context, vectorStoreID, fileID string) error
	RemoveFile(ctx context.Context, vectorStoreID, fileID string) error
	DeleteFile(ctx context.Context, fileID string) error
}
