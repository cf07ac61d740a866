package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"

	"github.com/sambafall/teranga/internal/auth"
	"github.com/sambafall/teranga/internal/category"
	"github.com/sambafall/teranga/internal/config"
	"github.com/sambafall/teranga/internal/dashboard"
	"github.com/sambafall/teranga/internal/metrics"
	"github.com/sambafall/teranga/internal/middleware"
	"github.com/sambafall/teranga/internal/offer"
	"github.com/sambafall/teranga/internal/settings"
	"github.com/sambafall/teranga/internal/whatsapp"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config          config.Config
	DB              *pgxpool.Pool
	ObjectStore     *minio.Client
	AuthService     *auth.Service
	OfferService    *offer.Service
	CategoryService *category.Service
	SettingsService *settings.Service
	DashboardSource dashboard.StatsSource
	WhatsAppService *whatsapp.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	v1 := router.Group("/v1")

	offer.RegisterRoutes(v1, deps.OfferService)
	category.RegisterRoutes(v1, deps.CategoryService)
	settings.RegisterRoutes(v1, deps.SettingsService)

	authGroup := v1.Group("/")
	authGroup.Use(middleware.RateLimit(deps.Config.RateLimit.AuthRPS, deps.Config.RateLimit.AuthBurst))
	auth.RegisterRoutes(authGroup, deps.AuthService)

	protected := v1.Group("/")
	protected.Use(auth.Middleware(deps.AuthService))
	auth.RegisterProtectedRoutes(protected, deps.AuthService)
	whatsapp.RegisterRoutes(protected, deps.WhatsAppService)

	admin := v1.Group("/admin")
	admin.Use(auth.Middleware(deps.AuthService), auth.RequireAdmin())
	offer.RegisterAdminRoutes(admin, deps.OfferService)
	category.RegisterAdminRoutes(admin, deps.CategoryService)
	settings.RegisterAdminRoutes(admin, deps.SettingsService)
	dashboard.RegisterRoutes(admin, deps.DashboardSource)

	return router
}
