package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"pricewatch/internal/config"
	"pricewatch/internal/http/handlers"
	applog "pricewatch/internal/log"
	"pricewatch/internal/repos"
	"pricewatch/internal/scheduler"
)

func main() {
	cfg := config.Load()

	// Missing fetch credential is fatal at start; a partial run with a
	// dead fetcher would only produce failure rows.
	if cfg.FirecrawlKey == "" {
		log.Fatal("FIRECRAWL_API_KEY is required")
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())

	deps := handlers.NewDeps(db, cfg)

	// Dashboard
	app.Get("/", deps.DashboardHandler.Home)

	// API
	api := app.Group("/api/v1")
	api.Get("/products", limiter.New(limiter.Config{Max: 60, Expiration: time.Minute}), deps.ProductHandler.List)
	api.Get("/products/:id/history", deps.ProductHandler.History)

	// Sync triggers fan out to the remote fetch service; keep them
	// admin-only and tightly rate-limited.
	syncLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.sync.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "error": "rate limit exceeded, retry soon"})
		},
	})
	sync := api.Group("/sync", handlers.RequireAdminToken(cfg.AdminTokenHash), syncLimiter)
	sync.Post("/products/:id", deps.SyncHandler.SyncOne)
	sync.Post("/all", deps.SyncHandler.SyncAll)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "not found"})
	})

	// Daily batch loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx, deps.BatchService(), cfg.ScrapeInterval)

	log.Fatal(app.Listen(":" + cfg.Port))
}
