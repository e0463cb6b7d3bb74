package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// RespondWithError writes err as {"error": message, "code": code}. AppErrors
// keep their status and client-safe message; anything else is logged and
// answered with a generic internal error.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

// ErrorHandler converts errors attached to the gin context with c.Error into
// the JSON error body, unless a response was already written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// The last error is the most relevant in a middleware chain.
		RespondWithError(c, c.Errors.Last().Err)
	}
}
