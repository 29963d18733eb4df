package controller

import (
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookFolderController interface {
	RegisterRoutes(r fiber.Router, mw ...fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type notebookFolderController struct {
	service service.INotebookFolderService
}

func NewNotebookFolderController(service service.INotebookFolderService) INotebookFolderController {
	return &notebookFolderController{service: service}
}

func (c *notebookFolderController) RegisterRoutes(r fiber.Router, mw ...fiber.Handler) {
	h := r.Group("/notebook-folders", mw...)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *notebookFolderController) GetAll(ctx *fiber.Ctx) error {
	notebookId, err := serverutils.QueryUUID(ctx, "notebook_id")
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), serverutils.CurrentUserID(ctx), notebookId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all folder", res))
}

func (c *notebookFolderController) Create(ctx *fiber.Ctx) error {
	var req dto.NotebookFolderRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create folder", res))
}

func (c *notebookFolderController) Update(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateNotebookFolderRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Update(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update folder", res))
}

func (c *notebookFolderController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.CurrentUserID(ctx), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
