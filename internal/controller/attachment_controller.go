package controller

import (
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAttachmentController interface {
	RegisterRoutes(r fiber.Router, mw ...fiber.Handler)
	PresignUpload(ctx *fiber.Ctx) error
	DownloadURL(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	LinkOpenAI(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type attachmentController struct {
	service service.IAttachmentService
}

func NewAttachmentController(service service.IAttachmentService) IAttachmentController {
	return &attachmentController{service: service}
}

func (c *attachmentController) RegisterRoutes(r fiber.Router, mw ...fiber.Handler) {
	h := r.Group("/attachments", mw...)
	h.Post("/presign-upload", c.PresignUpload)
	h.Get("/:id/download-url", c.DownloadURL)
	h.Put("/:id", c.Rename)
	h.Post("/:id/link-openai", c.LinkOpenAI)
	h.Delete("/:id", c.Delete)
}

func (c *attachmentController) PresignUpload(ctx *fiber.Ctx) error {
	var req dto.PresignUploadRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.PresignUpload(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success presign upload", res))
}

func (c *attachmentController) DownloadURL(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.DownloadURL(ctx.UserContext(), serverutils.CurrentUserID(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success presign download", res))
}

func (c *attachmentController) Rename(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateAttachmentRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Update(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update attachment", res))
}

func (c *attachmentController) LinkOpenAI(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.LinkOpenAIRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.LinkOpenAI(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success link attachment", res))
}

func (c *attachmentController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.CurrentUserID(ctx), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
