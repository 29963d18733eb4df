package controller

import (
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuizController interface {
	RegisterRoutes(r fiber.Router, mw ...fiber.Handler)
	GetQuestions(ctx *fiber.Ctx) error
	CreateQuestion(ctx *fiber.Ctx) error
	UpdateQuestion(ctx *fiber.Ctx) error
	DeleteQuestion(ctx *fiber.Ctx) error
	GetFolders(ctx *fiber.Ctx) error
	CreateFolder(ctx *fiber.Ctx) error
	UpdateFolder(ctx *fiber.Ctx) error
	DeleteFolder(ctx *fiber.Ctx) error
	GetAttempt(ctx *fiber.Ctx) error
	SubmitAttempt(ctx *fiber.Ctx) error
}

type quizController struct {
	service service.IQuizService
}

func NewQuizController(service service.IQuizService) IQuizController {
	return &quizController{service: service}
}

func (c *quizController) RegisterRoutes(r fiber.Router, mw ...fiber.Handler) {
	h := r.Group("/quizzes", mw...)
	h.Get("/folders", c.GetFolders)
	h.Post("/folders", c.CreateFolder)
	h.Put("/folders/:id", c.UpdateFolder)
	h.Delete("/folders/:id", c.DeleteFolder)
	h.Get("/folders/:id/attempt", c.GetAttempt)
	h.Post("/folders/:id/attempt", c.SubmitAttempt)

	h.Get("", c.GetQuestions)
	h.Post("", c.CreateQuestion)
	h.Put("/:id", c.UpdateQuestion)
	h.Delete("/:id", c.DeleteQuestion)
}

func (c *quizController) GetQuestions(ctx *fiber.Ctx) error {
	notebookId, err := serverutils.QueryUUID(ctx, "notebook_id")
	if err != nil {
		return err
	}

	res, err := c.service.ListQuestions(ctx.UserContext(), serverutils.CurrentUserID(ctx), notebookId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all question", res))
}

func (c *quizController) CreateQuestion(ctx *fiber.Ctx) error {
	var req dto.CreateQuizQuestionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateQuestion(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create question", res))
}

func (c *quizController) UpdateQuestion(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateQuizQuestionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.UpdateQuestion(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update question", res))
}

func (c *quizController) DeleteQuestion(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteQuestion(ctx.UserContext(), serverutils.CurrentUserID(ctx), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *quizController) GetFolders(ctx *fiber.Ctx) error {
	notebookId, err := serverutils.QueryUUID(ctx, "notebook_id")
	if err != nil {
		return err
	}

	res, err := c.service.ListFolders(ctx.UserContext(), serverutils.CurrentUserID(ctx), notebookId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all quiz folder", res))
}

func (c *quizController) CreateFolder(ctx *fiber.Ctx) error {
	var req dto.CreateQuizFolderRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateFolder(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create quiz folder", res))
}

func (c *quizController) UpdateFolder(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateQuizFolderRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.UpdateFolder(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update quiz folder", res))
}

func (c *quizController) DeleteFolder(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteFolder(ctx.UserContext(), serverutils.CurrentUserID(ctx), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *quizController) GetAttempt(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetAttempt(ctx.UserContext(), serverutils.CurrentUserID(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get attempt", res))
}

func (c *quizController) SubmitAttempt(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SubmitQuizAttemptRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.FolderId = id

	res, err := c.service.SubmitAttempt(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success submit attempt", res))
}
