package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/asyncx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx/errxfiber"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

const (
	requestIDHeader    = "X-Request-ID"
	healthCheckTimeout = 3 * time.Second
)

func newApp(container *Container) *fiber.App {
	cfg := container.Config.Server
	log := container.Logger.Named("http")

	app := fiber.New(fiber.Config{
		AppName:               "Expense Tracker API",
		DisableStartupMessage: true,
		ErrorHandler:          errxfiber.ErrorHandler(log),
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		IdleTimeout:           120 * time.Second,
	})

	// Global middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	app.Use(requestid.New(requestid.Config{
		Header:    requestIDHeader,
		Generator: func() string { return "req-" + uuid.NewString() },
	}))
	app.Use(requestContext)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Auth-Session-Token, X-Request-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "*",
		ExposeHeaders:    "X-Request-ID, Auth-Session-Token, Location",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Use(newHTTPMetrics(container.Metrics).Handler())

	// Health and metrics
	app.Get("/health", healthCheckHandler(container))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(container.Metrics, promhttp.HandlerOpts{})))

	// Module routes
	container.IAM.RegisterRoutes(app)
	log.Info("IAM routes registered under /api/user")

	app.Use(notFoundHandler)
	return app
}

// requestContext copies the request id into the user context so services and
// audit logs can see it.
func requestContext(c *fiber.Ctx) error {
	if rid, ok := c.Locals("requestid").(string); ok {
		c.SetUserContext(context.WithValue(c.UserContext(), kernel.RequestIDKey, rid))
	}
	return c.Next()
}

type healthCheck struct {
	name string
	ping func(context.Context) error
}

// healthCheckHandler pings every backing store concurrently. Any failure
// degrades the response to 503.
func healthCheckHandler(container *Container) fiber.Handler {
	checks := []healthCheck{
		{name: "db", ping: container.IAM.Ping},
		{name: "cache", ping: container.Cache.Ping},
		{name: "templates", ping: container.pingTemplates},
	}

	return func(c *fiber.Ctx) error {
		fns := make([]func(context.Context) (string, error), len(checks))
		for i, check := range checks {
			fns[i] = func(ctx context.Context) (string, error) {
				return asyncx.WithTimeout(ctx, healthCheckTimeout, func(ctx context.Context) (string, error) {
					return check.name, check.ping(ctx)
				})
			}
		}

		health := fiber.Map{
			"status":  "healthy",
			"service": "expense-tracker-api",
			"version": container.Config.Server.AppVersion,
		}
		for i, res := range asyncx.AllSettled(c.UserContext(), fns...) {
			name := checks[i].name
			if res.OK() {
				health[name] = "healthy"
				continue
			}
			health[name] = "unhealthy"
			health["status"] = "degraded"
			container.Logger.WithError(res.Err).WithField("check", name).Warn("Health check failed")
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound, "route "+c.Method()+" "+c.Path()+" does not exist")
}

// startServer serves until ctx is cancelled, then drains connections.
func startServer(ctx context.Context, app *fiber.App, container *Container) {
	cfg := container.Config.Server
	log := container.Logger

	go func() {
		log.Infof("Server listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exited")
}
