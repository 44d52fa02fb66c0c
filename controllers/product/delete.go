package productcontroller

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/cache"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

type DeleteProductInput struct {
	ProductID string `json:"productID"`
}

// DeleteProduct removes the store's product and any cart lines pointing at it.
// Transaction details keep their productID.
func DeleteProduct(ctx context.Context, db *gorm.DB, storeID, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return models.BadRequestError("ProductID not inserted")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("product_id = ? AND store_id = ?", productID, storeID).Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NotFoundError("Product with given ID not found")
		}

		return tx.Where("product_id = ?", productID).Delete(&models.Cart{}).Error
	})
}

// DELETE /product
func DeleteProductHandler(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := middleware.CurrentStore(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var input DeleteProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(models.BadRequestError("Invalid input: " + err.Error()))
			return
		}

		if err := DeleteProduct(c.Request.Context(), db, store.StoreID, input.ProductID); err != nil {
			_ = c.Error(err)
			return
		}
		pc.Invalidate(c.Request.Context(), input.ProductID)

		c.JSON(http.StatusOK, gin.H{"success": true, "deletedProductID": input.ProductID})
	}
}
