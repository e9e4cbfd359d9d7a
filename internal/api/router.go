package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/binarcar/car-rental/internal/api/handler"
	"github.com/binarcar/car-rental/internal/api/middleware"
	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

// Deps holds everything the router needs to build its handlers.
type Deps struct {
	Auth   ports.AuthService
	Cars   ports.CarService
	Policy ports.AccessPolicy
	// Probes are pinged by /health/ready, keyed by dependency name.
	Probes map[string]handler.Pinger
	// AuthRateLimit is the per-IP request budget per minute on /v1/auth
	// register and login. Zero disables it.
	AuthRateLimit int
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "car_rental",
		Registerer: d.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	rootHandler := handler.NewRootHandler()
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Probes)

	e.GET("/", rootHandler.Index)
	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/documentation.json", rootHandler.Documentation)
	e.GET("/documentation/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/documentation.json")))

	v1 := e.Group("/v1")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	authGroup := v1.Group("/auth")
	authLimit := middleware.RateLimitByIP(d.AuthRateLimit)
	authGroup.POST("/register", authHandler.Register, authLimit)
	authGroup.POST("/login", authHandler.Login, authLimit)
	authGroup.GET("/whoami", authHandler.WhoAmI, middleware.Authorize(d.Policy))

	// --- Car routes ---
	carHandler := handler.NewCarHandler(d.Cars)
	adminOnly := middleware.Authorize(d.Policy, domain.RoleAdmin)

	cars := v1.Group("/cars")
	cars.GET("", carHandler.List)
	cars.GET("/:id", carHandler.Get)
	cars.POST("", carHandler.Create, adminOnly)
	cars.PUT("/:id", carHandler.Update, adminOnly)
	cars.DELETE("/:id", carHandler.Delete, adminOnly)
	cars.POST("/:id/rent", carHandler.Rent, middleware.Authorize(d.Policy))

	// Unknown routes fall through to the error handler's envelope.
	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	})

	return e
}
