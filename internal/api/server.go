package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/pynezz/gungnir/internal/config"
	"github.com/pynezz/gungnir/internal/middleware"
	"github.com/pynezz/gungnir/internal/orchestrator"
)

// Server binds the HTTP surface to the orchestrator
type Server struct {
	orch *orchestrator.Orchestrator
	auth *middleware.Auth
}

// NewServer initializes a new API server with the provided configuration
func NewServer(cfg *config.Cfg, orch *orchestrator.Orchestrator) (*fiber.App, error) {
	srv := &Server{orch: orch}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Network.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Network.WriteTimeout) * time.Second,
	})

	// Middleware
	app.Use(logger.New()) // Log every request

	if len(cfg.Network.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.Network.CORSOrigins, ","),
		}))
	}

	if cfg.Auth.Enabled {
		auth, err := middleware.NewAuth(cfg.Auth.APIKey)
		if err != nil {
			return nil, err
		}
		srv.auth = auth

		// Everything except the root and the token exchange needs a
		// valid bearer token
		app.Use(func(c *fiber.Ctx) error {
			if c.Path() != "/" && c.Path() != "/auth/token" {
				return auth.Bouncer()(c)
			}
			return c.Next()
		})
	}

	srv.setupRoutes(app)

	return app, nil
}

// setupRoutes configures all the routes for the API server
func (s *Server) setupRoutes(app *fiber.App) {
	app.Get("/", indexHandler)
	app.Post("/auth/token", s.tokenHandler)

	api := app.Group("/api")
	api.Post("/scans", s.createScanHandler)
	api.Get("/scans", s.listScansHandler)
	api.Get("/scans/:id/result", s.scanResultHandler)
	api.Get("/scans/:id/vulnerabilities", s.scanVulnerabilitiesHandler)
	api.Patch("/vulnerabilities/:id/false-positive", s.falsePositiveHandler)
	api.Post("/ai/triage", s.triageHandler)
	api.Post("/ai/nlp-query", s.nlpQueryHandler)
	api.Get("/dashboard/stats", s.dashboardStatsHandler)

	app.Get("/ws/scans/:id", websocket.New(s.wsScanHandler))
}

// indexHandler handles the root path
func indexHandler(c *fiber.Ctx) error {
	return c.SendString("Gungnir Fiber API Server is up and running!")
}
