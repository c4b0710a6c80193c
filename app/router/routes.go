// Package router provides HTTP routing, middleware configuration, and server setup for the review service
package router

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/amirphl/open-so-review/app/dto"
	"github.com/amirphl/open-so-review/app/handlers"
	"github.com/amirphl/open-so-review/app/middleware"
	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/amirphl/open-so-review/config"
	_ "github.com/amirphl/open-so-review/docs"
	"github.com/amirphl/open-so-review/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cache"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/swaggo/swag"
)

const healthPath = "/api/v1/health"

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                *fiber.App
	cfg                *config.ProductionConfig
	reviewHandler      handlers.ReviewHandlerInterface
	employeeHandler    handlers.EmployeeHandlerInterface
	delayReasonHandler handlers.DelayReasonHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	reviewHandler handlers.ReviewHandlerInterface,
	employeeHandler handlers.EmployeeHandlerInterface,
	delayReasonHandler handlers.DelayReasonHandlerInterface,
) Router {
	bodyLimit := cfg.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 4 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:      "Open Sales Order Review",
		ServerHeader: "open-so-review",
		ErrorHandler: errorHandler,
		BodyLimit:    bodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                app,
		cfg:                cfg,
		reviewHandler:      reviewHandler,
		employeeHandler:    employeeHandler,
		delayReasonHandler: delayReasonHandler,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.metricsPath(), middleware.MetricsHandler())
	}

	// Review form, the page employees land on from the "Email" action
	submitLimiter := r.rateLimiter(r.cfg.Security.SubmitRateLimit, nil)
	r.app.Get(businessflow.ReviewPagePath, r.reviewHandler.ShowForm)
	r.app.Post(businessflow.ReviewPagePath, submitLimiter, r.reviewHandler.SubmitForm)
	r.app.Get("/employees/:id/review", r.employeeHandler.OpenReview)

	api := r.app.Group("/api/v1")
	api.Get("/health", r.healthCheck)

	if r.isDevelopment() {
		api.Get("/swagger.json", r.serveSwaggerJSON)
		log.Println("API documentation enabled for development")
	}

	api.Use(r.rateLimiter(r.cfg.Security.GlobalRateLimit, func(c fiber.Ctx) bool {
		return c.Path() == healthPath
	}))

	review := api.Group("/review")
	review.Get("/pages", r.reviewHandler.GetPage)
	review.Post("/submissions", submitLimiter, r.reviewHandler.Submit)

	api.Get("/employees/:id/review-action", r.employeeHandler.ReviewAction)
	api.Get("/sales-orders/:id/delay-reasons", r.delayReasonHandler.ListBySalesOrder)
	api.Get("/sales-reps/:id/delay-reasons/export", r.delayReasonHandler.ExportReport)
	api.Get("/exports/:uuid", r.delayReasonHandler.DownloadExport)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.NewString()
		},
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				requestid.FromContext(c),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics(r.metricsPath()))
	}

	// The review form relies on an inline onchange handler for page switching
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             r.cfg.Security.XFrameOptions,
		HSTSMaxAge:                31536000,
		ContentSecurityPolicy:     r.cfg.Security.CSPPolicy,
		ReferrerPolicy:            r.cfg.Security.ReferrerPolicy,
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	if len(r.cfg.Security.AllowedOrigins) > 0 {
		r.app.Use(cors.New(cors.Config{
			AllowOrigins:     r.cfg.Security.AllowedOrigins,
			AllowMethods:     r.cfg.Security.AllowedMethods,
			AllowHeaders:     r.cfg.Security.AllowedHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: r.cfg.Security.AllowCredentials,
			MaxAge:           utils.CORSMaxAge,
		}))
	}

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
			Next: func(c fiber.Ctx) bool {
				// xlsx downloads are already zipped
				return strings.HasPrefix(c.Path(), "/api/v1/exports/") ||
					strings.HasSuffix(c.Path(), "/delay-reasons/export")
			},
		}))
	}

	// Only the generated API description is cacheable
	r.app.Use(cache.New(cache.Config{
		Next: func(c fiber.Ctx) bool {
			return c.Method() != fiber.MethodGet || c.Path() != "/api/v1/swagger.json"
		},
		Expiration:          10 * time.Minute,
		DisableCacheControl: false,
	}))

	if r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","pid":"${pid}","request_id":"${respHeader:X-Request-ID}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Stream:     log.Writer(),
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath
			},
		}))
	}
}

func (r *FiberRouter) rateLimiter(max int, next func(c fiber.Ctx) bool) fiber.Handler {
	if max <= 0 {
		return func(c fiber.Ctx) error { return c.Next() }
	}
	window := r.cfg.Security.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: next,
	})
}

func (r *FiberRouter) metricsPath() string {
	if r.cfg.Metrics.Path == "" {
		return "/metrics"
	}
	return r.cfg.Metrics.Path
}

func (r *FiberRouter) isDevelopment() bool {
	env := r.cfg.Deployment.Environment
	return env == "development" || env == "local"
}

func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   r.cfg.Deployment.Version,
			"service":   "open-so-review",
		},
	})
}

func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.SendString(doc)
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	log.Printf("Error %d: %v", code, err)

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}
