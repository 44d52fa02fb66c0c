package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/auth"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.RouterGroup, s *auth.Service) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(s))
		authGroup.POST("/login", auth.LoginHandler(s))
	}
}
