// Package router assembles the Fiber application from its dependencies.
package router

import (
	"strings"
	"time"

	"hyperdrive/internal/config"
	"hyperdrive/internal/handlers"
	"hyperdrive/internal/middleware"
	"hyperdrive/internal/repositories"
	"hyperdrive/internal/services"
	"hyperdrive/internal/validation"
	"hyperdrive/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources the app is built on.
type Dependencies struct {
	DB     *gorm.DB
	Logger *zap.Logger
	// Publisher receives moderation events. Nil disables them.
	Publisher services.EventPublisher
	// LimiterStorage holds rate-limit counters. Nil keeps them in memory.
	LimiterStorage fiber.Storage
}

// New wires repositories, services and handlers into a Fiber app.
func New(cfg *config.Config, deps Dependencies) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "hyperdrive",
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(corsConfig(cfg.CORSOriginList())))

	users := repositories.NewGORMUserRepository(deps.DB)
	projects := repositories.NewGORMProjectRepository(deps.DB)

	authService := services.NewAuthService(users, cfg.AppSecret, cfg.TokenTTL)
	resolver := services.NewUserResolver(cfg.IsDevelopment(), authService, users, log)
	projectService := services.NewProjectService(
		projects,
		validation.New(cfg.Categories()),
		deps.Publisher,
		log,
		cfg.AutoHideReportThreshold,
	)

	app.Get("/health", healthHandler(deps.DB))

	requireUser := middleware.ResolveUser(resolver)
	v1 := app.Group("/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(v1, requireUser)
	handlers.NewProjectHandler(projectService).RegisterRoutes(v1, handlers.ProjectGuards{
		RequireUser:  requireUser,
		OptionalUser: middleware.ResolveOptionalUser(resolver),
		CreateLimit:  middleware.DailyLimit("projects:create", cfg.ProjectCreateDailyLimit, deps.LimiterStorage),
		ReportLimit:  middleware.DailyLimit("projects:report", cfg.ReportDailyLimit, deps.LimiterStorage),
	})

	return app
}

// corsConfig allows credentials only for an explicit origin list; browsers
// refuse credentialed responses with a wildcard origin.
func corsConfig(origins []string) cors.Config {
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		return cors.Config{AllowOrigins: "*"}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
	}
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, dbStatus, code := "healthy", "connected", fiber.StatusOK
		if err := database.Ping(c.UserContext(), db); err != nil {
			status, dbStatus, code = "degraded", "unreachable", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
		})
	}
}
