package service

import (
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/pkg/ai/registry"
)

type IAiConfigService interface {
	GetConfig() *dto.AiConfigResponse
}

type aiConfigService struct {
	registry *registry.Registry
}

func NewAiConfigService(reg *registry.Registry) IAiConfigService {
	return &aiConfigService{registry: reg}
}

func (s *aiConfigService) GetConfig() *dto.AiConfigResponse {
	return &dto.AiConfigResponse{
		ModelOptions:  s.registry.ModelOptions(),
		ModelDefaults: s.registry.ModelDefaults(),
		ToolOptions:   s.registry.ToolOptions(),
		ToolDefaults:  s.registry.ToolDefaults(),
	}
}
