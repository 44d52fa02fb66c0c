package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/xhfmvls/c-buy/controllers/cart"
	"gorm.io/gorm"
)

func SetupCartRoutes(r *gin.RouterGroup, db *gorm.DB) {
	cart := r.Group("/cart")
	{
		cart.GET("", cartControllers.GetUserCart(db))
		cart.POST("", cartControllers.UpdateCartItem(db))
		cart.DELETE("/:productID", cartControllers.DeleteCartItem(db))
	}
}
