package controller

import (
	"io"
	"strconv"
	"strings"

	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAudioController interface {
	RegisterRoutes(r fiber.Router, mw ...fiber.Handler)
	Transcribe(ctx *fiber.Ctx) error
}

type audioController struct {
	service service.IAudioService
}

func NewAudioController(service service.IAudioService) IAudioController {
	return &audioController{service: service}
}

func (c *audioController) RegisterRoutes(r fiber.Router, mw ...fiber.Handler) {
	h := r.Group("/audio", mw...)
	h.Post("/transcriptions", c.Transcribe)
}

func (c *audioController) Transcribe(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Validation("file is required")
	}
	if fileHeader.Size > service.MaxAudioBytes {
		return apperror.TooLarge("Audio file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, service.MaxAudioBytes+1))
	if err != nil {
		return err
	}

	req := dto.AudioTranscriptionRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Content:     content,
		ModelKey:    strings.TrimSpace(ctx.FormValue("model_key")),
		Language:    strings.TrimSpace(ctx.FormValue("language")),
		Prompt:      strings.TrimSpace(ctx.FormValue("prompt")),
	}

	if raw := strings.TrimSpace(ctx.FormValue("min_confidence")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return apperror.Validation("min_confidence must be a number between 0 and 1")
		}
		req.MinConfidence = &v
	}
	if raw := strings.TrimSpace(ctx.FormValue("attachment_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("attachment_id must be a valid id")
		}
		req.AttachmentId = &id
	}

	res, err := c.service.Transcribe(ctx.UserContext(), serverutils.CurrentUserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
}
