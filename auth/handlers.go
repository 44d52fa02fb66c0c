package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/models"
)

// POST /auth/register
func RegisterHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(models.BadRequestError("Invalid request body"))
			return
		}

		user, err := s.Register(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
	}
}

// POST /auth/login
func LoginHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(models.BadRequestError("Invalid request body"))
			return
		}

		token, err := s.Login(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}
