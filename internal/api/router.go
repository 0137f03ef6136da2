package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eschool/eschool-api/docs"
	"github.com/eschool/eschool-api/internal/api/handler"
	"github.com/eschool/eschool-api/internal/api/middleware"
	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
	infrahttp "github.com/eschool/eschool-api/internal/infrastructure/http"
	"github.com/eschool/eschool-api/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the HTTP layer needs. Everything is
// constructed in main and passed in explicitly.
type Dependencies struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	Health         map[string]handlers.Pinger

	AuthService   ports.AuthService
	CourseService ports.CourseService
	BookService   ports.BookService
	TokenVerifier ports.TokenVerifier

	// EnableSwagger serves the API docs on /swagger/*.
	EnableSwagger bool
	// Registerer receives the HTTP request metrics. Defaults to the global
	// Prometheus registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := infrahttp.NewServer(infrahttp.ServerOptions{
		Logger:         deps.Logger,
		AllowedOrigins: deps.AllowedOrigins,
		Health:         deps.Health,
	})
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "eschool",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.GET("/metrics", echoprometheus.NewHandler())

	if deps.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	authHandler := handler.NewAuthHandler(deps.AuthService)
	courseHandler := handler.NewCourseHandler(deps.CourseService)
	bookHandler := handler.NewBookHandler(deps.BookService)

	authenticated := middleware.Auth(deps.TokenVerifier)
	authors := middleware.RBAC(domain.RoleInstructor, domain.RoleAdmin)
	students := middleware.RBAC(domain.RoleStudent)

	apiGroup := e.Group("/api")

	// --- Auth routes ---
	auth := apiGroup.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// --- Course routes ---
	courses := apiGroup.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("/create", courseHandler.Create, authenticated, authors)
	courses.POST("/enroll/:id", courseHandler.Enroll, authenticated, students)
	courses.GET("/user/enrolled", courseHandler.Enrolled, authenticated)
	courses.GET("/user/enrolled/:id", courseHandler.EnrolledDetail, authenticated)
	courses.GET("/:id", courseHandler.Get)

	// --- Book routes ---
	books := apiGroup.Group("/books")
	books.GET("", bookHandler.List)
	books.POST("", bookHandler.Create, authenticated, authors)

	return e
}
