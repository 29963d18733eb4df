package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iZhuoxx/AI-web/pkg/llm"

	"github.com/BurntSushi/toml"
)

var (
	ErrMissingModelKey = errors.New("missing model_key")
	ErrUnsupportedKey  = errors.New("unsupported model_key")
)

type modelEntry struct {
	Id                  string `toml:"id"`
	Label               string `toml:"label"`
	SupportsTemperature *bool  `toml:"supports_temperature"`
}

type toolEntry struct {
	Type  string `toml:"type"`
	Label string `toml:"label"`
}

type file struct {
	ModelOptions  []string              `toml:"model_options"`
	ModelDefaults map[string]string     `toml:"model_defaults"`
	ToolDefaults  map[string][]string   `toml:"tool_defaults"`
	Models        map[string]modelEntry `toml:"models"`
	Tools         map[string]toolEntry  `toml:"tools"`
}

type ModelInfo struct {
	Key                 string
	Model               string
	SupportsTemperature bool
}

// Options returns the llm options selecting this model. The temperature is
// dropped for models that reject it.
func (m ModelInfo) Options(temperature float64) []llm.Option {
	opts := []llm.Option{llm.WithModel(m.Model)}
	if m.SupportsTemperature {
		opts = append(opts, llm.WithTemperature(temperature))
	}
	return opts
}

type ModelOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type ToolOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
}

// Registry maps client-facing model keys to provider models.
type Registry struct {
	data       file
	modelOrder []string
	toolOrder  []string
}

func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ai registry: %w", err)
	}
	return Parse(string(raw))
}

func Parse(raw string) (*Registry, error) {
	var data file
	meta, err := toml.Decode(raw, &data)
	if err != nil {
		return nil, fmt.Errorf("parse ai registry: %w", err)
	}

	r := &Registry{data: data}
	// Declaration order drives the option lists.
	for _, key := range meta.Keys() {
		if len(key) != 2 {
			continue
		}
		switch key[0] {
		case "models":
			r.modelOrder = append(r.modelOrder, key[1])
		case "tools":
			r.toolOrder = append(r.toolOrder, key[1])
		}
	}

	for key, entry := range data.Models {
		if strings.TrimSpace(entry.Id) == "" {
			return nil, fmt.Errorf("model %q has no id", key)
		}
	}
	for feature, key := range data.ModelDefaults {
		if _, ok := data.Models[key]; !ok {
			return nil, fmt.Errorf("default %q points to unknown model %q", feature, key)
		}
	}
	return r, nil
}

// Resolve picks modelKey, or the default configured for feature when the key is blank.
func (r *Registry) Resolve(modelKey string, feature string) (ModelInfo, error) {
	key := strings.TrimSpace(modelKey)
	if key == "" {
		key = r.data.ModelDefaults[feature]
	}
	if key == "" {
		return ModelInfo{}, ErrMissingModelKey
	}
	entry, ok := r.data.Models[key]
	if !ok {
		return ModelInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}
	supports := true
	if entry.SupportsTemperature != nil {
		supports = *entry.SupportsTemperature
	}
	return ModelInfo{Key: key, Model: strings.TrimSpace(entry.Id), SupportsTemperature: supports}, nil
}

// ModelOptions lists selectable models. When model_options is set it decides
// both membership and order.
func (r *Registry) ModelOptions() []ModelOption {
	keys := r.modelOrder
	if len(r.data.ModelOptions) > 0 {
		keys = r.data.ModelOptions
	}
	options := make([]ModelOption, 0, len(keys))
	for _, key := range keys {
		entry, ok := r.data.Models[key]
		if !ok {
			continue
		}
		label := strings.TrimSpace(entry.Label)
		if label == "" {
			label = key
		}
		options = append(options, ModelOption{Key: key, Label: label})
	}
	return options
}

func (r *Registry) ToolOptions() []ToolOption {
	options := make([]ToolOption, 0, len(r.toolOrder))
	for _, key := range r.toolOrder {
		entry := r.data.Tools[key]
		label := entry.Label
		if label == "" {
			label = key
		}
		options = append(options, ToolOption{Key: key, Label: label, Type: entry.Type})
	}
	return options
}

func (r *Registry) ModelDefaults() map[string]string {
	out := make(map[string]string, len(r.data.ModelDefaults))
	for k, v := range r.data.ModelDefaults {
		out[k] = v
	}
	return out
}

func (r *Registry) ToolDefaults() map[string][]string {
	out := make(map[string][]string, len(r.data.ToolDefaults))
	for k, v := range r.data.ToolDefaults {
		out[k] = append([]string(nil), v...)
	}
	return out
}
