package controller

import (
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAiConfigController interface {
	RegisterRoutes(r fiber.Router, mw ...fiber.Handler)
	GetConfig(ctx *fiber.Ctx) error
}

type aiConfigController struct {
	service service.IAiConfigService
}

func NewAiConfigController(service service.IAiConfigService) IAiConfigController {
	return &aiConfigController{service: service}
}

func (c *aiConfigController) RegisterRoutes(r fiber.Router, mw ...fiber.Handler) {
	h := r.Group("/ai", mw...)
	h.Get("/config", c.GetConfig)
}

func (c *aiConfigController) GetConfig(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get ai config", c.service.GetConfig()))
}
