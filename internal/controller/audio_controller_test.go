package controller

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAudioService struct {
	service.IAudioService
	req *dto.AudioTranscriptionRequest
}

func (f *fakeAudioService) Transcribe(ctx context.Context, userId uuid.UUID, req *dto.AudioTranscriptionRequest) (*dto.AudioTranscriptionResponse, error) {
	f.req = req
	return &dto.AudioTranscriptionResponse{Text: "hello", Model: "whisper-1", Segments: []dto.TranscriptionSegmentResponse{}}, nil
}

func newAudioHarness(t *testing.T) (*harness, *fakeAudioService) {
	return newAudioHarnessWithToken(t, "internal")
}

func newAudioHarnessWithToken(t *testing.T, token string) (*harness, *fakeAudioService) {
	audio := &fakeAudioService{}
	ctrl := NewAudioController(audio)
	h := newHarness(t, func(api fiber.Router, session, csrf fiber.Handler) {
		ctrl.RegisterRoutes(api, session, serverutils.InternalTokenMiddleware(token, csrf))
	})
	return h, audio
}

func audioRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withFile {
		part, err := w.CreateFormFile("file", "lecture.webm")
		require.NoError(t, err)
		_, err = part.Write([]byte("audio-bytes"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/audio/transcriptions", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func (h *harness) withAudioAuth(req *http.Request, key string) *http.Request {
	req.AddCookie(&http.Cookie{Name: h.cfg.SessionCookieName, Value: h.session})
	if key != "" {
		req.Header.Set(serverutils.InternalTokenHeader, key)
	}
	return req
}

func TestTranscriptionParsesForm(t *testing.T) {
	h, audio := newAudioHarness(t)
	attachment := uuid.New()

	resp, body := h.send(h.withAudioAuth(audioRequest(t, map[string]string{
		"model_key":      " whisper ",
		"language":       "en",
		"min_confidence": "0.4",
		"attachment_id":  attachment.String(),
	}, true), "internal"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)

	require.NotNil(t, audio.req)
	assert.Equal(t, "lecture.webm", audio.req.Filename)
	assert.Equal(t, []byte("audio-bytes"), audio.req.Content)
	assert.Equal(t, "whisper", audio.req.ModelKey)
	assert.Equal(t, "en", audio.req.Language)
	require.NotNil(t, audio.req.MinConfidence)
	assert.InDelta(t, 0.4, *audio.req.MinConfidence, 1e-9)
	require.NotNil(t, audio.req.AttachmentId)
	assert.Equal(t, attachment, *audio.req.AttachmentId)
}

func TestTranscriptionRejectsBadInput(t *testing.T) {
	h, audio := newAudioHarness(t)

	cases := []struct {
		name     string
		fields   map[string]string
		withFile bool
	}{
		{"missing file", nil, false},
		{"confidence not a number", map[string]string{"min_confidence": "high"}, true},
		{"confidence out of range", map[string]string{"min_confidence": "1.5"}, true},
		{"bad attachment id", map[string]string{"attachment_id": "42"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := h.send(h.withAudioAuth(audioRequest(t, tc.fields, tc.withFile), "internal"))
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Nil(t, audio.req)
}

func TestTranscriptionRequiresInternalKey(t *testing.T) {
	h, audio := newAudioHarness(t)

	resp, _ := h.send(h.withAudioAuth(audioRequest(t, nil, true), ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.send(h.withAudioAuth(audioRequest(t, nil, true), "wrong"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, audio.req)
}

func TestTranscriptionWithoutInternalKeyNeedsCsrf(t *testing.T) {
	h, audio := newAudioHarnessWithToken(t, "")

	resp, _ := h.send(h.withAudioAuth(audioRequest(t, nil, true), ""))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Nil(t, audio.req)

	resp, _ = h.send(h.withAudioAuth(h.withCsrf(audioRequest(t, nil, true), h.csrf), ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotNil(t, audio.req)
}
