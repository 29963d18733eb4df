package server

import (
	"github.com/iZhuoxx/AI-web/internal/bootstrap"
	"github.com/iZhuoxx/AI-web/internal/config"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"
	"github.com/iZhuoxx/AI-web/internal/service"
	"github.com/iZhuoxx/AI-web/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		// Audio uploads are the largest bodies we accept.
		BodyLimit:    service.MaxAudioBytes + 1<<20,
		ErrorHandler: serverutils.FiberErrorHandler(container.Logger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + cfg.Auth.CsrfHeaderName + ", " + serverutils.InternalTokenHeader,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("Server", "Server is running", map[string]interface{}{"port": s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	session := serverutils.SessionMiddleware(cfg.Auth, c.AuthService)
	csrf := serverutils.CsrfMiddleware(cfg.Auth)

	c.AuthController.RegisterRoutes(api, session, csrf)
	c.AiConfigController.RegisterRoutes(api)

	c.NotebookController.RegisterRoutes(api, session, csrf)
	c.NotebookFolderController.RegisterRoutes(api, session, csrf)
	c.AttachmentController.RegisterRoutes(api, session, csrf)
	c.FlashcardController.RegisterRoutes(api, session, csrf)
	c.QuizController.RegisterRoutes(api, session, csrf)
	c.MindMapController.RegisterRoutes(api, session, csrf)

	// Audio is also called by internal tools holding the shared key instead of a CSRF token.
	c.AudioController.RegisterRoutes(api, session, serverutils.InternalTokenMiddleware(cfg.Auth.InternalAudioToken, csrf))

	api.Get("/ws", session, websocket.UpgradeMiddleware(), websocket.Handler(c.WebSocketHub))
}
