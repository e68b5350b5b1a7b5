// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/handlers"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	"github.com/JohnConnorCode/roofing-made-easy/config"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles every handler the router wires up
type Handlers struct {
	Estimate    handlers.EstimateHandlerInterface
	LeadAdmin   handlers.LeadAdminHandlerInterface
	PricingRule handlers.PricingRuleHandlerInterface
	Settings    handlers.SettingsHandlerInterface
	Invoice     handlers.InvoiceHandlerInterface
	Job         handlers.JobHandlerInterface
	Report      handlers.ReportHandlerInterface
	Financing   handlers.FinancingHandlerInterface
	Claim       handlers.ClaimHandlerInterface
	AuthAdmin   handlers.AuthAdminHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	handlers Handlers
	authMW   *middleware.AuthMiddleware
	security config.SecurityConfig
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, authMW *middleware.AuthMiddleware, cfg *config.ProductionConfig) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Roofing Made Easy API",
		ServerHeader: "roofing-made-easy",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		handlers: h,
		authMW:   authMW,
		security: cfg.Security,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	api.Use(r.rateLimiter(r.security.GlobalRateLimit, func(c fiber.Ctx) bool {
		return c.Path() == "/api/v1/health"
	}))

	// Public funnel endpoints
	api.Post("/estimates", r.handlers.Estimate.CreateEstimate)
	api.Get("/estimates/:uuid", r.handlers.Estimate.GetEstimate)
	api.Post("/leads/:uuid/contact", r.handlers.Estimate.AttachContact)
	api.Post("/financing", r.handlers.Financing.SubmitApplication)
	api.Post("/claims", r.handlers.Claim.FileClaim)

	// Admin auth with stricter rate limiting
	adminAuth := api.Group("/admin/auth")
	adminAuth.Use(r.rateLimiter(r.security.AuthRateLimit, nil))
	adminAuth.Post("/login", r.handlers.AuthAdmin.Login)
	adminAuth.Post("/refresh", r.handlers.AuthAdmin.Refresh)

	// Protected back office endpoints
	admin := api.Group("/admin", r.authMW.AdminAuthenticate())

	admin.Get("/leads", r.handlers.LeadAdmin.ListLeads)
	admin.Get("/leads/:uuid", r.handlers.LeadAdmin.GetLead)
	admin.Patch("/leads/:uuid/status", r.handlers.LeadAdmin.UpdateLeadStatus)
	admin.Post("/leads/:uuid/resend-estimate", r.handlers.LeadAdmin.ResendEstimate)

	admin.Get("/pricing-rules", r.handlers.PricingRule.ListRules)
	admin.Put("/pricing-rules", r.handlers.PricingRule.UpsertRule)
	admin.Patch("/pricing-rules/:key", r.handlers.PricingRule.UpdateRule)
	admin.Delete("/pricing-rules/:key", r.handlers.PricingRule.DeactivateRule)

	settings := admin.Group("/settings")
	settings.Use(r.rateLimiter(r.security.SettingsRateLimit, nil))
	settings.Get("/", r.handlers.Settings.GetSettings)
	settings.Put("/", r.handlers.Settings.UpdateSettings)

	admin.Post("/invoices", r.handlers.Invoice.CreateInvoice)
	admin.Get("/invoices", r.handlers.Invoice.ListInvoices)
	admin.Get("/invoices/:uuid", r.handlers.Invoice.GetInvoice)
	admin.Post("/invoices/:uuid/send", r.handlers.Invoice.SendInvoice)
	admin.Post("/invoices/:uuid/pay", r.handlers.Invoice.MarkInvoicePaid)
	admin.Post("/invoices/:uuid/void", r.handlers.Invoice.VoidInvoice)

	admin.Post("/jobs", r.handlers.Job.CreateJob)
	admin.Get("/jobs", r.handlers.Job.ListJobs)
	admin.Get("/jobs/:uuid", r.handlers.Job.GetJob)
	admin.Patch("/jobs/:uuid", r.handlers.Job.UpdateJob)

	admin.Get("/reports/summary", r.handlers.Report.Summary)
	admin.Get("/reports/leads.xlsx", r.handlers.Report.ExportLeads)

	admin.Get("/financing/:uuid", r.handlers.Financing.GetApplication)
	admin.Post("/financing/:uuid/decision", r.handlers.Financing.DecideApplication)

	admin.Get("/claims/:uuid", r.handlers.Claim.GetClaim)
	admin.Patch("/claims/:uuid", r.handlers.Claim.UpdateClaim)

	// Not found handler
	r.app.Use(r.notFoundHandler)
}

func (r *FiberRouter) rateLimiter(max int, next func(fiber.Ctx) bool) fiber.Handler {
	window := r.security.RateLimitWindow
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

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware, must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.security.AllowedOrigins,
		AllowMethods:     r.security.AllowedMethods,
		AllowHeaders:     r.security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: r.security.AllowCredentials,
		MaxAge:           utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Structured access log
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus metrics
	r.app.Use(middleware.Metrics())

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"service":   "roofing-made-easy-api",
		},
	})
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a random request identifier
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
