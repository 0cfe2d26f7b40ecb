package server

import (
	"context"
	"log"

	"turkgpt/internal/bootstrap"
	"turkgpt/internal/config"
	"turkgpt/internal/pkg/serverutils"

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
	return &Server{
		app:       NewApp(cfg, container.ChatbotController, container.SessionFeedHandler),
		cfg:       cfg,
		container: container,
	}
}

// RouteRegistrar is anything that mounts routes under /api.
type RouteRegistrar interface {
	RegisterRoutes(r fiber.Router)
}

// NewApp builds the fiber app with the shared middleware stack.
func NewApp(cfg *config.Config, registrars ...RouteRegistrar) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "TürkGPT API",
		BodyLimit: 1 * 1024 * 1024, // 1MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, " + serverutils.CallerIDHeader,
		AllowMethods:  "GET, POST, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (no-op unless a tracer provider is installed)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	api := app.Group("/api")
	for _, r := range registrars {
		if r != nil {
			r.RegisterRoutes(api)
		}
	}

	return app
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
