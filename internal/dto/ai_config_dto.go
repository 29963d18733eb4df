package dto

import "github.com/iZhuoxx/AI-web/pkg/ai/registry"

// AiConfigResponse is what clients need to offer model and tool choices.
type AiConfigResponse struct {
	ModelOptions  []registry.ModelOption `json:"model_options"`
	ModelDefaults map[string]string      `json:"model_defaults"`
	ToolOptions   []registry.ToolOption  `json:"tool_options"`
	ToolDefaults  map[string][]string    `json:"tool_defaults"`
}
