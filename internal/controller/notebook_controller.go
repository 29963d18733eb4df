package controller

import (
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router, mw ...fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GenerateTitle(ctx *fiber.Ctx) error
	GenerateFlashcards(ctx *fiber.Ctx) error
	GenerateQuiz(ctx *fiber.Ctx) error
	GenerateMindMap(ctx *fiber.Ctx) error
}

type notebookController struct {
	service    service.INotebookService
	generation service.IGenerationService
}

func NewNotebookController(service service.INotebookService, generation service.IGenerationService) INotebookController {
	return &notebookController{service: service, generation: generation}
}

func (c *notebookController) RegisterRoutes(r fiber.Router, mw ...fiber.Handler) {
	h := r.Group("/notebooks", mw...)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Post("/title", c.GenerateTitle)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/flashcards/generate", c.GenerateFlashcards)
	h.Post("/:id/quizzes/generate", c.GenerateQuiz)
	h.Post("/:id/mindmaps/generate", c.GenerateMindMap)
}

func (c *notebookController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext(), serverutils.CurrentUserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all notebook", res))
}

func (c *notebookController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNotebookRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create notebook", res))
}

func (c *notebookController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), serverutils.CurrentUserID(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show notebook", res))
}

func (c *notebookController) Update(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateNotebookRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Update(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update notebook", res))
}

func (c *notebookController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.CurrentUserID(ctx), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *notebookController) GenerateTitle(ctx *fiber.Ctx) error {
	var req dto.GenerateTitleRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.GenerateTitle(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate title", res))
}

func (c *notebookController) parseGenerate(ctx *fiber.Ctx) (*dto.GenerateRequest, error) {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return nil, err
	}
	var req dto.GenerateRequest
	if len(ctx.Body()) > 0 {
		if err := serverutils.ParseBody(ctx, &req); err != nil {
			return nil, err
		}
	}
	req.NotebookId = id
	return &req, nil
}

func (c *notebookController) GenerateFlashcards(ctx *fiber.Ctx) error {
	req, err := c.parseGenerate(ctx)
	if err != nil {
		return err
	}

	res, err := c.generation.GenerateFlashcards(ctx.UserContext(), serverutils.CurrentUserID(ctx), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success generate flashcards", res))
}

func (c *notebookController) GenerateQuiz(ctx *fiber.Ctx) error {
	req, err := c.parseGenerate(ctx)
	if err != nil {
		return err
	}

	res, err := c.generation.GenerateQuiz(ctx.UserContext(), serverutils.CurrentUserID(ctx), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success generate quiz", res))
}

func (c *notebookController) GenerateMindMap(ctx *fiber.Ctx) error {
	req, err := c.parseGenerate(ctx)
	if err != nil {
		return err
	}

	res, err := c.generation.GenerateMindMap(ctx.UserContext(), serverutils.CurrentUserID(ctx), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success generate mind map", res))
}
