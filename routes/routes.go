package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/auth"
	"github.com/xhfmvls/c-buy/cache"
	transactionControllers "github.com/xhfmvls/c-buy/controllers/transaction"
	"github.com/xhfmvls/c-buy/events"
	"github.com/xhfmvls/c-buy/middleware"
	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Cache     cache.ProductCache
	Publisher events.Publisher
	Hub       *events.Hub
	Auth      *auth.Service
	Wallets   []string
	Log       *slog.Logger
}

// SetupRoutes mounts every API group under /api/v1.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Cache == nil {
		d.Cache = cache.NopProductCache{}
	}
	api := r.Group("/api/v1")

	transactions := transactionControllers.NewHandler(d.DB, d.Publisher, d.Cache, d.Hub, d.Wallets, d.Log)

	// Public
	SetupAuthRoutes(api, d.Auth)

	// Websocket upgrade, token checked by the route itself
	SetupTransactionFeed(api, d.Auth.Secret, transactions)

	// JWT protected
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(d.Auth.Secret))

	SetupUserRoutes(protected, d.DB)
	SetupStoreRoutes(protected, d.DB)
	SetupProductRoutes(protected, d.DB, d.Cache)
	SetupCartRoutes(protected, d.DB)
	SetupTransactionRoutes(protected, transactions)
}
