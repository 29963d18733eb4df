package controller

import (
	"time"

	"github.com/iZhuoxx/AI-web/internal/config"
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, session fiber.Handler, csrf fiber.Handler)
	Csrf(ctx *fiber.Ctx) error
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	cfg     config.AuthConfig
	now     func() time.Time
}

func NewAuthController(service service.IAuthService, cfg config.AuthConfig) IAuthController {
	return &authController{service: service, cfg: cfg, now: time.Now}
}

func (c *authController) RegisterRoutes(r fiber.Router, session fiber.Handler, csrf fiber.Handler) {
	h := r.Group("/auth")
	h.Get("/csrf", c.Csrf)
	h.Post("/register", csrf, c.Register)
	h.Post("/login", csrf, c.Login)
	h.Post("/logout", csrf, c.Logout)
	h.Get("/me", session, c.Me)
}

func (c *authController) rotateCsrf(ctx *fiber.Ctx) (string, error) {
	token, err := serverutils.IssueCsrfToken(c.cfg, c.now())
	if err != nil {
		return "", err
	}
	serverutils.SetCsrfCookie(ctx, c.cfg, token)
	return token, nil
}

func (c *authController) startSession(ctx *fiber.Ctx, userId uuid.UUID) error {
	token, err := serverutils.IssueSessionToken(c.cfg, userId, c.now())
	if err != nil {
		return err
	}
	serverutils.SetSessionCookie(ctx, c.cfg, token)
	_, err = c.rotateCsrf(ctx)
	return err
}

func (c *authController) Csrf(ctx *fiber.Ctx) error {
	token, err := c.rotateCsrf(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success issue csrf token", dto.CsrfTokenResponse{CsrfToken: token}))
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	if err := c.startSession(ctx, res.User.Id); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	if err := c.startSession(ctx, res.User.Id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

// Logout is stateless: the cookie goes away and the CSRF token is rotated.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	serverutils.ClearSessionCookie(ctx, c.cfg)
	if _, err := c.rotateCsrf(ctx); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	res, err := c.service.SessionInfo(ctx.UserContext(), serverutils.CurrentUserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}
