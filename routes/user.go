package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/xhfmvls/c-buy/controllers/user"
	"gorm.io/gorm"
)

// SetupUserRoutes registers the caller's own profile endpoints.
func SetupUserRoutes(r *gin.RouterGroup, db *gorm.DB) {
	user := r.Group("/user")
	{
		user.GET("", userControllers.GetUser(db))
		user.PATCH("", userControllers.PatchUser(db))
	}
}
