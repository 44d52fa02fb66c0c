package userControllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

var validate = validator.New()

// UpdateUserInput leaves a field nil when the client did not send it.
type UpdateUserInput struct {
	Email *string `json:"email"`
}

func FindUser(ctx context.Context, db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundError("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser writes the fields present in input and returns the stored user.
func UpdateUser(ctx context.Context, db *gorm.DB, userID string, input UpdateUserInput) (*models.User, error) {
	updates := make(map[string]interface{})
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" {
			if err := validate.Var(email, "email"); err != nil {
				return nil, models.BadRequestError("email is not valid")
			}
		}
		updates["email"] = email
	}
	if len(updates) == 0 {
		return nil, models.BadRequestError("No fields to update")
	}

	var user *models.User
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NotFoundError("User not found")
		}
		var err error
		user, err = FindUser(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		user, err := FindUser(c.Request.Context(), db, identity.UserID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// PATCH /user
func PatchUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := middleware.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(models.BadRequestError("Invalid input: " + err.Error()))
			return
		}

		user, err := UpdateUser(c.Request.Context(), db, identity.UserID, input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}
