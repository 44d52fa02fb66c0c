package productcontroller

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	ProductName string           `json:"productName"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Stocks      int              `json:"stocks"`
}

func (in CreateProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.ProductName) == "":
		return models.BadRequestError("productName is required")
	case strings.TrimSpace(in.Category) == "":
		return models.BadRequestError("category is required")
	case in.Price == nil:
		return models.BadRequestError("price is required")
	case in.Price.IsNegative():
		return models.BadRequestError("price cannot be negative")
	case in.Stocks < 0:
		return models.BadRequestError("stocks cannot be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, db *gorm.DB, storeID string, in CreateProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := models.Product{
		ProductID:   uuid.NewString(),
		ProductName: strings.TrimSpace(in.ProductName),
		StoreID:     storeID,
		Price:       in.Price.Round(2),
		Category:    strings.TrimSpace(in.Category),
		Stocks:      in.Stocks,
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// POST /product
func PostProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := middleware.CurrentStore(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(models.BadRequestError("Invalid input: " + err.Error()))
			return
		}

		product, err := CreateProduct(c.Request.Context(), db, store.StoreID, input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
	}
}
