package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/iZhuoxx/AI-web/pkg/llm"
)

const DefaultModel = "gpt-4.1-mini"

// Provider talks to the OpenAI HTTP API: responses, audio transcriptions,
// files and vector stores.
type Provider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

var (
	_ llm.LLMProvider  = &Provider{}
	_ llm.Transcriber  = &Provider{}
	_ llm.VectorStores = &Provider{}
)

func NewProvider(baseURL, apiKey string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Provider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		ModelName: DefaultModel,
		Client:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai error: status %d, body: %s", e.Status, e.Body)
}

// --- Responses API ---

type contentPart struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	FileID string `json:"file_id,omitempty"`
}

type inputMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type textFormat struct {
	Type   string                 `json:"type"`
	Name   string                 `json:"name,omitempty"`
	Schema map[string]interface{} `json:"schema,omitempty"`
	Strict bool                   `json:"strict,omitempty"`
}

type textConfig struct {
	Format textFormat `json:"format"`
}

type tool struct {
	Type           string   `json:"type"`
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

type responsesRequest struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Temperature     *float64       `json:"temperature,omitempty"`
	MaxOutputTokens int            `json:"max_output_tokens,omitempty"`
	Text            *textConfig    `json:"text,omitempty"`
	Tools           []tool         `json:"tools,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (p *Provider) buildRequest(history []llm.Message, o llm.Options) responsesRequest {
	model := p.ModelName
	if o.Model != "" {
		model = o.Model
	}

	input := make([]inputMessage, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		partType := "input_text"
		if role == "assistant" {
			partType = "output_text"
		}
		input = append(input, inputMessage{Role: role, Content: []contentPart{{Type: partType, Text: msg.Content}}})
	}
	if len(o.FileIDs) > 0 {
		files := make([]contentPart, 0, len(o.FileIDs))
		for _, id := range o.FileIDs {
			files = append(files, contentPart{Type: "input_file", FileID: id})
		}
		input = append(input, inputMessage{Role: "user", Content: files})
	}

	req := responsesRequest{
		Model:           model,
		Input:           input,
		Temperature:     o.Temperature,
		MaxOutputTokens: o.MaxOutputTokens,
	}
	if o.Schema != nil {
		req.Text = &textConfig{Format: textFormat{
			Type:   "json_schema",
			Name:   o.Schema.Name,
			Schema: o.Schema.Schema,
			Strict: true,
		}}
	}
	if len(o.VectorStoreIDs) > 0 {
		req.Tools = []tool{{Type: "file_search", VectorStoreIDs: o.VectorStoreIDs}}
	}
	return req
}

// ExtractText concatenates the output_text parts of every message item.
func ExtractText(body []byte) (string, error) {
	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	var sb strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				sb.WriteString(c.Text)
			}
		}
	}
	return sb.String(), nil
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	payload := p.buildRequest(history, llm.Apply(opts...))

	body, err := p.doJSON(ctx, http.MethodPost, "/responses", payload)
	if err != nil {
		return "", err
	}
	text, err := ExtractText(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{llm.User(prompt)}, opts...)
}

// --- Audio ---

type transcriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Id         json.Number `json:"id"`
		Start      float64     `json:"start"`
		End        float64     `json:"end"`
		Text       string      `json:"text"`
		AvgLogprob *float64    `json:"avg_logprob"`
	} `json:"segments"`
}

// Only whisper-1 returns segments; the newer transcribe models answer with plain json.
func responseFormat(model string) string {
	if strings.HasPrefix(model, "whisper") {
		return "verbose_json"
	}
	return "json"
}

func (p *Provider) Transcribe(ctx context.Context, r llm.TranscriptionRequest) (*llm.Transcription, error) {
	model := r.Model
	if model == "" {
		model = "gpt-4o-transcribe"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, r.Filename))
	contentType := r.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create multipart: %w", err)
	}
	if _, err := part.Write(r.Content); err != nil {
		return nil, fmt.Errorf("write multipart: %w", err)
	}
	fields := map[string]string{
		"model":           model,
		"response_format": responseFormat(model),
	}
	if responseFormat(model) == "verbose_json" {
		fields["timestamp_granularities[]"] = "segment"
	}
	if r.Language != "" {
		fields["language"] = r.Language
	}
	if r.Prompt != "" {
		fields["prompt"] = r.Prompt
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	body, err := p.do(ctx, http.MethodPost, "/audio/transcriptions", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var resp transcriptionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal transcription: %w", err)
	}

	out := &llm.Transcription{
		Text:        resp.Text,
		Language:    resp.Language,
		DurationSec: resp.Duration,
		Model:       model,
	}
	for _, s := range resp.Segments {
		seg := llm.TranscriptionSegment{Start: s.Start, End: s.End, Text: s.Text}
		if id := s.Id.String(); id != "" {
			seg.Id = &id
		}
		if s.AvgLogprob != nil {
			c := math.Exp(*s.AvgLogprob)
			seg.Confidence = &c
		}
		out.Segments = append(out.Segments, seg)
	}
	return out, nil
}

// --- Vector stores ---

func (p *Provider) CreateVectorStore(ctx context.Context, name string) (string, error) {
	body, err := p.doJSON(ctx, http.MethodPost, "/vector_stores", map[string]string{"name": name})
	if err != nil {
		return "", err
	}
	var resp struct {
		Id string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal vector store: %w", err)
	}
	if resp.Id == "" {
		return "", fmt.Errorf("vector store id missing in response")
	}
	return resp.Id, nil
}

func (p *Provider) AddFile(ctx context.Context, vectorStoreID, fileID string) error {
	_, err := p.doJSON(ctx, http.MethodPost, "/vector_stores/"+vectorStoreID+"/files", map[string]string{"file_id": fileID})
	return err
}

func (p *Provider) RemoveFile(ctx context.Context, vectorStoreID, fileID string) error {
	_, err := p.do(ctx, http.MethodDelete, "/vector_stores/"+vectorStoreID+"/files/"+fileID, nil, "")
	return err
}

func (p *Provider) DeleteFile(ctx context.Context, fileID string) error {
	_, err := p.do(ctx, http.MethodDelete, "/files/"+fileID, nil, "")
	return err
}

// --- transport ---

func (p *Provider) doJSON(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return p.do(ctx, method, path, bytes.NewReader(payloadBytes), "application/json")
}

func (p *Provider) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	if strings.HasPrefix(path, "/vector_stores") {
		req.Header.Set("OpenAI-Beta", "assistants=v2")
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}
	return bodyBytes, nil
}
