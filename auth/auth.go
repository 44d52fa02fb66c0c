package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Service issues tokens signed with Secret that live for TTL.
type Service struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, models.BadRequestError("Username and Password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return models.BadRequestError("Username already taken")
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, models.BadRequestError("Username already taken")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks the credentials and returns a token carrying the user's store, if any.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	if req.Username == "" || req.Password == "" {
		return "", models.BadRequestError("Username and Password are required")
	}

	db := s.DB.WithContext(ctx)
	var user models.User
	if err := db.First(&user, "username = ?", strings.TrimSpace(req.Username)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.AuthenticationError("Invalid username or password")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", models.AuthenticationError("Invalid username or password")
	}

	var store models.Store
	storeID := ""
	err := db.First(&store, "user_id = ?", user.UserID).Error
	switch {
	case err == nil:
		storeID = store.StoreID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}

	return middleware.IssueToken(s.Secret, user.UserID, storeID, s.TTL)
}
