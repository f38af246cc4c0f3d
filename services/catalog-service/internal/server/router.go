package server

import (
	"github.com/keamoral/ouijagames/gomicro/jwtutil"
	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/gomicro/metrics"
	mid "github.com/keamoral/ouijagames/gomicro/middleware"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/handler"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/repository"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/validator"
	"github.com/keamoral/ouijagames/services/catalog-service/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Deps are the collaborators the catalog routes are built from
type Deps struct {
	Repo        repository.Repository
	JWT         *jwtutil.JWTUtil
	Metrics     *prometheus.Metrics
	HTTPMetrics *metrics.HTTPMetrics
	// Gatherer backs /metrics; nil means the default registry
	Gatherer prom.Gatherer
}

// NewRouter wires middleware and the /api routes onto a new echo instance
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	if d.HTTPMetrics != nil {
		e.Use(d.HTTPMetrics.Middleware())
	}

	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.HandlerFor(d.Gatherer)))
	} else {
		e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	}
	e.GET("/health", handler.HealthCheck)

	catalog := handler.NewCatalogHandler(d.Repo, d.Metrics)
	auth := handler.NewAuthHandler(d.Repo, d.JWT, d.Metrics)
	requireAuth := mid.JWTAuthMiddleware(d.JWT)

	api := e.Group("/api")

	// Reads are public, writes need a signed-in user
	productAPI := api.Group("/products")
	productAPI.GET("", catalog.ListProducts)
	productAPI.GET("/:id", catalog.GetProduct)
	productAPI.POST("", catalog.CreateProduct, requireAuth)
	productAPI.DELETE("/:id", catalog.DeleteProduct, requireAuth)

	categoryAPI := api.Group("/categories")
	categoryAPI.GET("", catalog.ListCategories)
	categoryAPI.POST("", catalog.CreateCategory, requireAuth)

	authAPI := api.Group("/auth")
	authAPI.POST("/register", auth.Register)
	authAPI.POST("/login", auth.Login)
	authAPI.PUT("/profile", auth.UpdateProfile, requireAuth)

	return e
}
