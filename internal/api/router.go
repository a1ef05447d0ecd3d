package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sirpyerre/pizza-delivery-api/internal/api/handler"
	"github.com/sirpyerre/pizza-delivery-api/internal/api/middleware"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/http/handlers"

	_ "github.com/sirpyerre/pizza-delivery-api/docs"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth   ports.AuthService
	Orders ports.OrderService
	// Checks feed the readiness check, keyed by dependency name.
	Checks map[string]handlers.Checker
	Logger zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// process-wide default registry, where the domain metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "pizza",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	authMiddleware := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	auth := e.Group("/auth")
	auth.GET("/", authHandler.Ping, authMiddleware)
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh, middleware.Bearer())

	// --- Order routes ---
	orderHandler := handler.NewOrderHandler(deps.Orders)
	orders := e.Group("/orders", authMiddleware)
	orders.GET("/", orderHandler.Ping)
	orders.POST("/order", orderHandler.PlaceOrder)
	orders.GET("/orders", orderHandler.ListAllOrders)
	orders.GET("/orders/:id", orderHandler.GetOrder)
	orders.GET("/user/orders", orderHandler.ListMyOrders)
	orders.GET("/user/order/:id", orderHandler.GetMyOrder)
	orders.PUT("/order/update/:id", orderHandler.UpdateOrder)
	orders.PATCH("/order/update/:id", orderHandler.UpdateOrderStatus)
	orders.DELETE("/order/delete/:id", orderHandler.DeleteOrder)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
