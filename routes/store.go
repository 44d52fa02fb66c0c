package routes

import (
	"github.com/gin-gonic/gin"
	storeControllers "github.com/xhfmvls/c-buy/controllers/store"
	"gorm.io/gorm"
)

func SetupStoreRoutes(r *gin.RouterGroup, db *gorm.DB) {
	store := r.Group("/store")
	{
		store.POST("", storeControllers.PostStore(db))
		store.GET("", storeControllers.GetStore(db))
	}
}
