package storeControllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

type CreateStoreRequest struct {
	StoreName string `json:"storeName"`
}

// CreateStore opens the user's store. A user owns at most one.
func CreateStore(ctx context.Context, db *gorm.DB, userID, name string) (*models.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.BadRequestError("StoreName not inserted")
	}

	store := models.Store{StoreID: uuid.NewString(), UserID: userID, StoreName: name}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.Store{}).Where("user_id = ?", userID).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return models.BadRequestError("User already owns a store")
		}
		return tx.Create(&store).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, models.BadRequestError("User already owns a store")
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func FindStore(ctx context.Context, db *gorm.DB, userID string) (*models.Store, error) {
	var store models.Store
	if err := db.WithContext(ctx).First(&store, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundError("Store Not Found")
		}
		return nil, err
	}
	return &store, nil
}

// POST /store
func PostStore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var req CreateStoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(models.BadRequestError("Invalid request body"))
			return
		}

		store, err := CreateStore(c.Request.Context(), db, user.UserID, req.StoreName)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "store": store})
	}
}

// GET /store
func GetStore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		store, err := FindStore(c.Request.Context(), db, user.UserID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "store": store})
	}
}
