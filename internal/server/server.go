// Package server exposes a read-only HTTP API over a saved scene
package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/philipparndt/yardplan/internal/catalog"
	"github.com/philipparndt/yardplan/internal/pricing"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/analysis"
)

// Scene is the part of a scene store the API reads from
type Scene interface {
	Items() []scene.Entity
	Get(id string) (scene.Entity, bool)
}

// Options configures the API
type Options struct {
	Pricing  pricing.Calculator
	Currency string
	Catalog  *catalog.Catalog
	// AccessLog enables the request logger middleware
	AccessLog bool
}

// Server serves scene data
type Server struct {
	app   *fiber.App
	scene Scene
	opts  Options
	log   *slog.Logger
}

// New creates the fiber app and registers all routes
func New(s Scene, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}

	srv := &Server{
		app: fiber.New(fiber.Config{
			AppName: "yardplan",
		}),
		scene: s,
		opts:  opts,
		log:   log,
	}

	srv.app.Use(recover.New())
	if opts.AccessLog {
		srv.app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
		}))
	}

	srv.app.Get("/health", srv.health)

	api := srv.app.Group("/api/v1")
	api.Get("/items", srv.items)
	api.Get("/items/:id", srv.item)
	api.Get("/price", srv.price)
	api.Get("/report", srv.report)
	api.Get("/catalog", srv.catalog)

	return srv
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.log.Info("starting HTTP API", "addr", addr)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"items":  len(s.scene.Items()),
	})
}

func (s *Server) items(c fiber.Ctx) error {
	items := s.scene.Items()
	if kind := c.Query("type"); kind != "" {
		filtered := items[:0]
		for _, e := range items {
			if string(e.Kind) == kind {
				filtered = append(filtered, e)
			}
		}
		items = filtered
	}
	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

func (s *Server) item(c fiber.Ctx) error {
	e, ok := s.scene.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "entity not found",
		})
	}
	return c.JSON(fiber.Map{
		"item":  e,
		"price": s.opts.Pricing.Price(e),
	})
}

func (s *Server) price(c fiber.Ctx) error {
	lines, total := s.opts.Pricing.Breakdown(s.scene.Items())
	return c.JSON(fiber.Map{
		"lines":    lines,
		"total":    total,
		"currency": s.opts.Currency,
	})
}

func (s *Server) report(c fiber.Ctx) error {
	return c.JSON(analysis.AnalyzeScene(s.scene.Items()))
}

func (s *Server) catalog(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"products": s.opts.Catalog.Products(),
		"presets":  s.opts.Catalog.PresetIDs(),
	})
}
