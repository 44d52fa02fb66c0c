package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xhfmvls/c-buy/cache"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

// PatchProductInput leaves a field nil when the client did not send it.
type PatchProductInput struct {
	ProductID   string           `json:"productID"`
	ProductName *string          `json:"productName"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stocks      *int             `json:"stocks"`
}

// columns returns the update statement's assignments and the same changes keyed
// by their JSON names. Only fields present in the input appear in either.
func (in PatchProductInput) columns() (map[string]interface{}, map[string]interface{}, error) {
	updates := make(map[string]interface{})
	changes := make(map[string]interface{})

	if in.ProductName != nil {
		name := strings.TrimSpace(*in.ProductName)
		if name == "" {
			return nil, nil, models.BadRequestError("productName cannot be empty")
		}
		updates["product_name"] = name
		changes["productName"] = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, nil, models.BadRequestError("price cannot be negative")
		}
		price := in.Price.Round(2)
		updates["price"] = price
		changes["price"] = price
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return nil, nil, models.BadRequestError("category cannot be empty")
		}
		updates["category"] = category
		changes["category"] = category
	}
	if in.Stocks != nil {
		if *in.Stocks < 0 {
			return nil, nil, models.BadRequestError("stocks cannot be negative")
		}
		updates["stocks"] = *in.Stocks
		changes["stocks"] = *in.Stocks
	}
	return updates, changes, nil
}

func PatchProduct(ctx context.Context, db *gorm.DB, storeID string, in PatchProductInput) (map[string]interface{}, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, models.BadRequestError("ProductID not inserted")
	}
	updates, changes, err := in.columns()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, models.BadRequestError("No fields to update")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("product_id").
			Where("product_id = ? AND store_id = ?", in.ProductID, storeID).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NotFoundError("Product with given ID not found")
			}
			return err
		}

		return tx.Model(&models.Product{}).
			Where("product_id = ? AND store_id = ?", in.ProductID, storeID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// PATCH /product
func PatchProductHandler(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := middleware.CurrentStore(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var input PatchProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(models.BadRequestError("Invalid input: " + err.Error()))
			return
		}

		changes, err := PatchProduct(c.Request.Context(), db, store.StoreID, input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		pc.Invalidate(c.Request.Context(), input.ProductID)

		c.JSON(http.StatusCreated, gin.H{"success": true, "update": changes})
	}
}
