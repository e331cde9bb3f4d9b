package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
)

// ErrorHandler is the centralized error-to-response mapper. Handlers attach
// errors to the context and return; this middleware translates the last one
// into {statusCode, message}. Unknown error types become a 500 with a generic
// message so internals never leak.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var apiErr *apperror.APIError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode >= http.StatusInternalServerError {
				logger.Error("request failed",
					zap.Int("status", apiErr.StatusCode),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
			c.JSON(apiErr.StatusCode, gin.H{
				"statusCode": apiErr.StatusCode,
				"message":    apiErr.Message,
			})
			return
		}

		logger.Error("unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"statusCode": http.StatusInternalServerError,
			"message":    http.StatusText(http.StatusInternalServerError),
		})
	}
}
