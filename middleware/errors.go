package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/models"
)

// ErrorHandler turns the last error attached to the context into a
// {success:false, message} response.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := models.StatusOf(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				slog.String("method", c.Request.Method),
				slog.String("path", c.FullPath()),
				slog.Any("err", err),
			)
			message = "internal server error"
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(status, gin.H{"success": false, "message": message})
	}
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "route does not exist"})
}
