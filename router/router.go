package router

import (
	"errors"
	"time"

	"github.com/showroomhq/showroom/config"
	mysqldb "github.com/showroomhq/showroom/infra/mysql"
	"github.com/showroomhq/showroom/middleware"
	ratelimiter "github.com/showroomhq/showroom/pkg/rate-limiter"
	"github.com/showroomhq/showroom/pkg/telemetry"
	"github.com/showroomhq/showroom/presenter"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(
	presenter presenter.Presenter,
	db *gorm.DB,
	tel *telemetry.OpenTelemetry,
	cfg *config.Config,
	limiter *ratelimiter.RateLimiter,
) *fiber.App {

	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorCustomHandler(tel.Log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5000",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${ip} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(otelfiber.Middleware(
		otelfiber.WithTracerProvider(tel.TracerProvider),
		otelfiber.WithPropagators(otel.GetTextMapPropagator()),
	))

	if cfg.REQUESTS_METRIC {
		zap.L().Info("Enabling HTTP request metrics middleware")
		app.Use(middleware.NewOtelMiddleware().Handle())
	} else {
		zap.L().Info("HTTP request metrics middleware is disabled")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := mysqldb.Ping(db, c.Context()); err != nil {
			zap.L().Error("Health check failed: database ping error", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"service":     cfg.SERVICE_NAME,
			"version":     cfg.SERVICE_VERSION,
			"environment": cfg.ENVIRONMENT,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := app.Group("/api/v1")

	api.Use(limiter.RateLimitMiddleware())

	customersAPI := api.Group("/customers")
	{
		customersAPI.Post("/", presenter.RegistryPresenter.CreateCustomer)
		customersAPI.Get("/", presenter.RegistryPresenter.ListCustomers)
		customersAPI.Get("/:customerId/full-details", presenter.SearchPresenter.FullDetails)
	}

	vehiclesAPI := api.Group("/vehicles")
	{
		vehiclesAPI.Post("/", presenter.RegistryPresenter.CreateVehicle)
		vehiclesAPI.Get("/", presenter.RegistryPresenter.ListVehicles)
	}

	dealersAPI := api.Group("/sub-dealers")
	{
		dealersAPI.Post("/", presenter.RegistryPresenter.CreateSubDealer)
		dealersAPI.Get("/", presenter.RegistryPresenter.ListSubDealers)
	}

	servicesAPI := api.Group("/services")
	{
		servicesAPI.Post("/", presenter.RegistryPresenter.CreateService)
		servicesAPI.Get("/", presenter.RegistryPresenter.ListServices)
	}

	api.Post("/purchases", presenter.SalesPresenter.CreatePurchase)
	api.Get("/finance/emi", presenter.SalesPresenter.QuoteEMI)

	api.Get("/search", presenter.SearchPresenter.Search)

	dashboardAPI := api.Group("/dashboard")
	{
		dashboardAPI.Get("/summary", presenter.DashboardPresenter.Summary)
		dashboardAPI.Get("/inventory", presenter.DashboardPresenter.Inventory)
		dashboardAPI.Get("/bookings", presenter.DashboardPresenter.Bookings)
		dashboardAPI.Get("/service-status", presenter.DashboardPresenter.ServiceStatus)
		dashboardAPI.Get("/alerts", presenter.DashboardPresenter.Alerts)
	}

	api.Get("/send-insurance-test/:email", presenter.NotifyPresenter.SendInsuranceTest)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Resource not found",
			"path":    c.Path(),
		})
	})

	return app
}

func ErrorCustomHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		log.Error("Request error occured",
			zap.Error(err),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Int("status_code", code),
		)

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
			"code":    code,
		})
	}
}
