package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

type CategoryCount struct {
	Category string `json:"category"`
	Products int64  `json:"products"`
}

// GET /product/categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := []CategoryCount{}
		if err := db.WithContext(c.Request.Context()).
			Model(&models.Product{}).
			Select("category, COUNT(*) AS products").
			Group("category").
			Order("category").
			Scan(&categories).Error; err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(categories), "categories": categories})
	}
}
