package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iZhuoxx/AI-web/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProvider(srv.URL, "sk-test", 5*time.Second)
}

func TestChatSendsSchemaAndReadsOutputText(t *testing.T) {
	var got map[string]interface{}
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"output":[
			{"type":"file_search_call"},
			{"type":"message","content":[{"type":"output_text","text":"{\"cards\":"},{"type":"output_text","text":"[]}"}]}
		]}`))
	})

	text, err := p.Chat(context.Background(),
		[]llm.Message{llm.System("sys"), llm.User("hi")},
		llm.WithModel("gpt-x"),
		llm.WithTemperature(0.2),
		llm.WithSchema("cards", map[string]interface{}{"type": "object"}),
		llm.WithFileSearch("vs_1"),
	)
	require.NoError(t, err)
	assert.Equal(t, `{"cards":[]}`, text)

	assert.Equal(t, "gpt-x", got["model"])
	assert.InDelta(t, 0.2, got["temperature"], 1e-9)
	format := got["text"].(map[string]interface{})["format"].(map[string]interface{})
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "cards", format["name"])
	tools := got["tools"].([]interface{})
	require.Len(t, tools, 1)
	assert.Equal(t, "file_search", tools[0].(map[string]interface{})["type"])
}

func TestChatEmptyReply(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"  "}]}]}`))
	})
	_, err := p.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestChatAttachesFilesAsTrailingUserMessage(t *testing.T) {
	var got struct {
		Input []inputMessage `json:"input"`
	}
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"ok"}]}]}`))
	})

	_, err := p.Chat(context.Background(), []llm.Message{llm.User("summarize")}, llm.WithFiles("file-1", "file-2"))
	require.NoError(t, err)

	require.Len(t, got.Input, 2)
	files := got.Input[1]
	assert.Equal(t, "user", files.Role)
	require.Len(t, files.Content, 2)
	assert.Equal(t, "input_file", files.Content[0].Type)
	assert.Equal(t, "file-2", files.Content[1].FileID)
}

func TestChatAPIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"slow down"}`))
	})
	_, err := p.Generate(context.Background(), "hi")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}

func TestTranscribeParsesSegments(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		assert.Equal(t, "en", r.FormValue("language"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "talk.wav", hdr.Filename)
		w.Write([]byte(`{"text":"a b","language":"english","duration":3.5,
			"segments":[{"id":0,"start":0,"end":1.2,"text":"a","avg_logprob":0},{"id":1,"start":1.2,"end":3.5,"text":"b"}]}`))
	})

	out, err := p.Transcribe(context.Background(), llm.TranscriptionRequest{
		Filename: "talk.wav", Content: []byte("RIFF"), Model: "whisper-1", Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "a b", out.Text)
	assert.InDelta(t, 3.5, out.DurationSec, 1e-9)
	require.Len(t, out.Segments, 2)
	require.NotNil(t, out.Segments[0].Confidence)
	assert.InDelta(t, 1.0, *out.Segments[0].Confidence, 1e-9)
	assert.Nil(t, out.Segments[1].Confidence)
}

func TestVectorStoreCalls(t *testing.T) {
	var paths []string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		w.Write([]byte(`{"id":"vs_123"}`))
	})

	id, err := p.CreateVectorStore(context.Background(), "Notebook-1")
	require.NoError(t, err)
	assert.Equal(t, "vs_123", id)
	require.NoError(t, p.AddFile(context.Background(), id, "file_1"))
	require.NoError(t, p.RemoveFile(context.Background(), id, "file_1"))

	assert.Equal(t, []string{
		"POST /vector_stores",
		"POST /vector_stores/vs_123/files",
		"DELETE /vector_stores/vs_123/files/file_1",
	}, paths)
}
