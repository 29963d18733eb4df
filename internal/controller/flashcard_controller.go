package controller

import (
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFlashcardController interface {
	RegisterRoutes(r fiber.Router, mw ...fiber.Handler)
	GetCards(ctx *fiber.Ctx) error
	CreateCard(ctx *fiber.Ctx) error
	UpdateCard(ctx *fiber.Ctx) error
	DeleteCard(ctx *fiber.Ctx) error
	GetFolders(ctx *fiber.Ctx) error
	CreateFolder(ctx *fiber.Ctx) error
	UpdateFolder(ctx *fiber.Ctx) error
	DeleteFolder(ctx *fiber.Ctx) error
}

type flashcardController struct {
	service service.IFlashcardService
}

func NewFlashcardController(service service.IFlashcardService) IFlashcardController {
	return &flashcardController{service: service}
}

func (c *flashcardController) RegisterRoutes(r fiber.Router, mw ...fiber.Handler) {
	cards := r.Group("/flashcards", mw...)
	cards.Get("", c.GetCards)
	cards.Post("", c.CreateCard)
	cards.Put("/:id", c.UpdateCard)
	cards.Delete("/:id", c.DeleteCard)

	folders := r.Group("/flashcard-folders", mw...)
	folders.Get("", c.GetFolders)
	folders.Post("", c.CreateFolder)
	folders.Put("/:id", c.UpdateFolder)
	folders.Delete("/:id", c.DeleteFolder)
}

func (c *flashcardController) GetCards(ctx *fiber.Ctx) error {
	notebookId, err := serverutils.QueryUUID(ctx, "notebook_id")
	if err != nil {
		return err
	}

	res, err := c.service.ListCards(ctx.UserContext(), serverutils.CurrentUserID(ctx), notebookId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all flashcard", res))
}

func (c *flashcardController) CreateCard(ctx *fiber.Ctx) error {
	var req dto.CreateFlashcardRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateCard(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create flashcard", res))
}

func (c *flashcardController) UpdateCard(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateFlashcardRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.UpdateCard(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update flashcard", res))
}

func (c *flashcardController) DeleteCard(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteCard(ctx.UserContext(), serverutils.CurrentUserID(ctx), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *flashcardController) GetFolders(ctx *fiber.Ctx) error {
	notebookId, err := serverutils.QueryUUID(ctx, "notebook_id")
	if err != nil {
		return err
	}

	res, err := c.service.ListFolders(ctx.UserContext(), serverutils.CurrentUserID(ctx), notebookId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all flashcard folder", res))
}

func (c *flashcardController) CreateFolder(ctx *fiber.Ctx) error {
	var req dto.CreateFlashcardFolderRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateFolder(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create flashcard folder", res))
}

func (c *flashcardController) UpdateFolder(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateFlashcardFolderRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.UpdateFolder(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update flashcard folder", res))
}

func (c *flashcardController) DeleteFolder(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteFolder(ctx.UserContext(), serverutils.CurrentUserID(ctx), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
