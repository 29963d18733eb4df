package registry

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/iZhuoxx/AI-web/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
model_options = ["b", "a", "missing"]

[model_defaults]
title = "a"

[models.a]
id = "model-a"
label = "Model A"

[models.b]
id = "model-b"
supports_temperature = false

[models.c]
id = "model-c"

[tools.zeta]
type = "file_search"

[tools.alpha]
type = "web_search_preview"
label = "Web"
`

func TestResolveUsesDefaultAndTemperatureFlag(t *testing.T) {
	r, err := Parse(sample)
	require.NoError(t, err)

	info, err := r.Resolve("  ", "title")
	require.NoError(t, err)
	assert.Equal(t, ModelInfo{Key: "a", Model: "model-a", SupportsTemperature: true}, info)

	info, err = r.Resolve("b", "title")
	require.NoError(t, err)
	assert.False(t, info.SupportsTemperature)
	o := llm.Apply(info.Options(0.3)...)
	assert.Equal(t, "model-b", o.Model)
	assert.Nil(t, o.Temperature)
}

func TestResolveErrors(t *testing.T) {
	r, err := Parse(sample)
	require.NoError(t, err)

	_, err = r.Resolve("", "quiz")
	assert.ErrorIs(t, err, ErrMissingModelKey)
	_, err = r.Resolve("nope", "title")
	assert.ErrorIs(t, err, ErrUnsupportedKey)
}

func TestOptionsKeepConfiguredOrder(t *testing.T) {
	r, err := Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, []ModelOption{{Key: "b", Label: "b"}, {Key: "a", Label: "Model A"}}, r.ModelOptions())
	assert.Equal(t, []ToolOption{
		{Key: "zeta", Label: "zeta", Type: "file_search"},
		{Key: "alpha", Label: "Web", Type: "web_search_preview"},
	}, r.ToolOptions())
}

func TestParseRejectsDanglingDefault(t *testing.T) {
	_, err := Parse("[model_defaults]\ntitle = \"ghost\"\n")
	assert.Error(t, err)
}

func TestShippedRegistryLoads(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "..", "config", "ai_models.toml")

	r, err := Load(path)
	require.NoError(t, err)
	for _, feature := range []string{"title", "flashcards", "quiz", "quizSummary", "mindmap", "transcription"} {
		_, err := r.Resolve("", feature)
		assert.NoError(t, err, feature)
	}
	assert.NotEmpty(t, r.ModelOptions())
}
