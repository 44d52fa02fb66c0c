package productcontroller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/cache"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

func FindProduct(ctx context.Context, db *gorm.DB, pc cache.ProductCache, productID string) (*models.Product, error) {
	if p, ok := pc.Get(ctx, productID); ok {
		return p, nil
	}

	var product models.Product
	if err := db.WithContext(ctx).First(&product, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundError("Product Not Found")
		}
		return nil, err
	}

	pc.Set(ctx, &product)
	return &product, nil
}

// GET /product/:productID
func GetProduct(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := FindProduct(c.Request.Context(), db, pc, c.Param("productID"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}
