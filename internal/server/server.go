package server

import (
	"context"
	"log"
	"time"

	"hdt-be/internal/bootstrap"
	"hdt-be/internal/config"
	"hdt-be/internal/pkg/serverutils"

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
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	s := &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}

	app.Get("/health", s.health)
	registerRoutes(app, container, serverutils.JwtMiddleware(cfg.App.JWTSecret))

	return s
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// health reports 503 only when the database is unreachable. A missing text
// generation backend is reported as degraded.
func (s *Server) health(ctx *fiber.Ctx) error {
	checkCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	database := "ok"
	if sqlDB, err := s.container.DB.DB(); err != nil || sqlDB.PingContext(checkCtx) != nil {
		database = "unreachable"
	}

	backend := "absent"
	if s.container.Backend != nil {
		backend = s.container.Backend.Name()
	}

	status := "ok"
	code := fiber.StatusOK
	switch {
	case database != "ok":
		status = "unavailable"
		code = fiber.StatusServiceUnavailable
	case s.container.Backend == nil:
		status = "degraded"
	}

	return ctx.Status(code).JSON(fiber.Map{
		"status":     status,
		"database":   database,
		"ai_backend": backend,
		"instance":   s.cfg.App.InstanceID,
	})
}

func registerRoutes(app *fiber.App, c *bootstrap.Container, jwtMiddleware fiber.Handler) {
	api := app.Group("/api")

	c.HDTController.RegisterRoutes(api, jwtMiddleware)
	c.SessionController.RegisterRoutes(api, jwtMiddleware)
	c.MonitoringController.RegisterRoutes(api, jwtMiddleware)
	c.TaskController.RegisterRoutes(api, jwtMiddleware)
	c.ChatController.RegisterRoutes(api, jwtMiddleware)

	c.StreamHandler.RegisterRoutes(api)
}
