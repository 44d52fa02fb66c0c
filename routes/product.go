package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/cache"
	productcontroller "github.com/xhfmvls/c-buy/controllers/product"
	"gorm.io/gorm"
)

func SetupProductRoutes(r *gin.RouterGroup, db *gorm.DB, pc cache.ProductCache) {
	product := r.Group("/product")
	{
		// ──────────────── Browse ────────────────
		product.GET("", productcontroller.GetProducts(db))
		product.GET("/categories", productcontroller.GetCategories(db))
		product.GET("/:productID", productcontroller.GetProduct(db, pc))

		// ──────────────── Store management ────────────────
		product.POST("", productcontroller.PostProduct(db))
		product.PATCH("", productcontroller.PatchProductHandler(db, pc))
		product.DELETE("", productcontroller.DeleteProductHandler(db, pc))
		product.GET("/export", productcontroller.ExportProductsToExcel(db))
		product.POST("/import", productcontroller.ImportProductsFromExcel(db, pc))
	}
}
