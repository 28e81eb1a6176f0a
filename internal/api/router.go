package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"

	_ "github.com/fitexperts/experts-api/docs"
	"github.com/fitexperts/experts-api/internal/api/handler"
	"github.com/fitexperts/experts-api/internal/api/middleware"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

const (
	serviceName = "experts-api"

	// Room for the text fields of a multipart form on top of the file.
	formOverhead = 1 << 20
)

// Options carries everything the router needs. Handlers are built by the caller.
type Options struct {
	Log        zerolog.Logger
	Production bool
	ClientURL  string
	// UserRPS limits requests per second per client IP on /api/users. Zero disables it.
	UserRPS     float64
	MaxFileSize int64

	Verifier ports.TokenVerifier
	Users    *handler.UserHandler
	Programs *handler.ProgramHandler
	Health   *handler.HealthHandler

	// Registry defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log, opts.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(otelecho.Middleware(serviceName))
	e.Use(middleware.RequestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "experts",
		Registerer: registerer(opts.Registry),
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{opts.ClientURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit(opts.MaxFileSize)))

	auth := middleware.AuthGuard(opts.Verifier)

	// --- Operations ---
	e.GET("/", opts.Health.Banner)
	e.GET("/health", opts.Health.Liveness)
	e.GET("/health/ready", opts.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(opts.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Users ---
	users := e.Group("/api/users")
	if opts.UserRPS > 0 {
		users.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(opts.UserRPS))))
	}
	users.POST("/register", opts.Users.Register)
	users.POST("/login", opts.Users.Login)
	users.POST("/logout", opts.Users.Logout)
	users.GET("/profile", opts.Users.Profile, auth)
	users.POST("/update", opts.Users.UpdateSelf, auth)
	users.PATCH("/update", opts.Users.UpdateSelf, auth)
	users.GET("/:id", opts.Users.Get)
	users.PATCH("/:id", opts.Users.Update, auth)

	// --- Programs ---
	programs := e.Group("/api/programs")
	programs.POST("", opts.Programs.Create, auth)
	programs.GET("/expert/:id", opts.Programs.ListByExpert)
	programs.GET("/:id", opts.Programs.Get)
	programs.PUT("/:id", opts.Programs.Update, auth)
	programs.DELETE("/:id", opts.Programs.Delete, auth)

	return e
}

func bodyLimit(maxFileSize int64) string {
	return fmt.Sprintf("%dK", (maxFileSize+formOverhead)/1024)
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}
