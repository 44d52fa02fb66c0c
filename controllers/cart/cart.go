package cartControllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemInput struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// ListCart returns the user's cart lines joined with their products.
func ListCart(ctx context.Context, db *gorm.DB, userID string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := db.WithContext(ctx).
		Table("cart").
		Select("cart.product_id, ms_product.product_name, ms_product.store_id, ms_product.price, cart.quantity").
		Joins("JOIN ms_product ON ms_product.product_id = cart.product_id").
		Where("cart.user_id = ?", userID).
		Order("ms_product.store_id, cart.product_id").
		Scan(&lines).Error
	return lines, err
}

// PutCartItem sets the quantity of productID in the user's cart. created reports
// whether the line is new.
func PutCartItem(ctx context.Context, db *gorm.DB, userID string, in CartItemInput) (item models.Cart, created bool, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("product_id").First(&product, "product_id = ?", in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NotFoundError("Product does not exist")
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Cart{}).
			Where("user_id = ? AND product_id = ?", userID, in.ProductID).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		item = models.Cart{
			UserID:    userID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			AddedAt:   time.Now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "added_at"}),
		}).Create(&item).Error
	})
	return item, created, err
}

func RemoveCartItem(ctx context.Context, db *gorm.DB, userID, productID string) error {
	result := db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Cart{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NotFoundError("Cart item not found")
	}
	return nil
}

// GET /cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		lines, err := ListCart(c.Request.Context(), db, user.UserID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(lines), "items": lines})
	}
}

// POST /cart
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(models.BadRequestError("Invalid input: " + err.Error()))
			return
		}

		item, created, err := PutCartItem(c.Request.Context(), db, user.UserID, input)
		if err != nil {
			_ = c.Error(err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"success": true, "item": item})
	}
}

// DELETE /cart/:productID
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		productID := c.Param("productID")
		if err := RemoveCartItem(c.Request.Context(), db, user.UserID, productID); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "deletedProductID": productID})
	}
}
