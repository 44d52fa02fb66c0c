package productcontroller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type ProductQuery struct {
	Limit    int    `form:"limit"`
	Offset   *int   `form:"offset"`
	Page     int    `form:"page"`
	Category string `form:"category"`
	StoreID  string `form:"storeID"`
}

// normalize clamps limit and derives offset from page when offset is absent.
func (q *ProductQuery) normalize() {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Offset == nil || *q.Offset < 0 {
		offset := (q.Page - 1) * q.Limit
		q.Offset = &offset
	}
}

func ListProducts(ctx context.Context, db *gorm.DB, q ProductQuery) ([]models.Product, error) {
	q.normalize()

	query := db.WithContext(ctx).Model(&models.Product{})
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.StoreID != "" {
		query = query.Where("store_id = ?", q.StoreID)
	}

	products := []models.Product{}
	if err := query.
		Order("created_at DESC").
		Order("product_id").
		Offset(*q.Offset).
		Limit(q.Limit).
		Find(&products).Error; err != nil {
		return nil, err
	}

	if len(products) == 0 && q.Page > 1 {
		return nil, models.BadRequestError("Page number is excessive")
	}
	return products, nil
}

// GET /product
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ProductQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			_ = c.Error(models.BadRequestError("Invalid query: " + err.Error()))
			return
		}

		products, err := ListProducts(c.Request.Context(), db, q)
		if err != nil {
			_ = c.Error(err)
			return
		}

		q.normalize()
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"page":     q.Page,
			"count":    len(products),
			"products": products,
		})
	}
}
