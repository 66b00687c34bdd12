// Package app wires repositories, services and handlers into the Fiber application.
package app

import (
	"errors"
	"time"

	"kasir/internal/config"
	"kasir/internal/events"
	"kasir/internal/handlers"
	"kasir/internal/middleware"
	"kasir/internal/realtime"
	"kasir/internal/repositories"
	"kasir/internal/services"
	"kasir/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// BodyLimit leaves room for a full size product image plus form fields.
const BodyLimit = storage.MaxImageSize + 1<<20

// Options carries everything New needs. Hub and Publisher are optional.
type Options struct {
	Config    config.Config
	DB        *gorm.DB
	Images    *storage.DiskImageStore
	Hub       *realtime.Hub
	Publisher events.Publisher
	Clock     func() time.Time
	// RequestLog toggles the Fiber request logger.
	RequestLog bool
}

// New builds the Fiber application with every route mounted at the root.
func New(opts Options) *fiber.App {
	cfg := opts.Config
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(opts.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(opts.DB)
	transactionRepo := repositories.NewGORMTransactionRepository(opts.DB)
	userRepo := repositories.NewGORMUserRepository(opts.DB)

	// --- Services ---
	productService := services.NewProductService(productRepo, categoryRepo, opts.Images, publisher)
	categoryService := services.NewCategoryService(categoryRepo, publisher)
	transactionService := services.NewTransactionService(transactionRepo, publisher)
	if opts.Clock != nil {
		transactionService.WithClock(opts.Clock)
	}
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)

	// --- Fiber ---
	app := fiber.New(fiber.Config{
		AppName:      "kasir",
		BodyLimit:    BodyLimit,
		ErrorHandler: errorHandler,
	})

	if opts.RequestLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(middleware.CorsMiddleware(cfg.CORSOrigins))

	// --- Public routes ---
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		if opts.Hub != nil {
			body["wsClients"] = opts.Hub.Clients()
		}
		return c.JSON(body)
	})
	app.Static(storage.PublicPrefix, opts.Images.Dir())
	if opts.Hub != nil {
		opts.Hub.RegisterRoutes(app)
	}
	handlers.NewAuthHandler(authService).RegisterRoutes(app)

	// --- Protected routes ---
	// Everything registered below requires a bearer token when AUTH_REQUIRED is set.
	var api fiber.Router = app
	if cfg.AuthRequired {
		api = app.Group("", middleware.AuthRequired(authService))
	}
	handlers.NewProductHandler(productService, cfg.PageLimit).RegisterRoutes(api)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(api)
	handlers.NewTransactionHandler(transactionService).RegisterRoutes(api)

	return app
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes or oversized bodies, in the same body shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
