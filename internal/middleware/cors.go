package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows the browser front end at origin to call the API. Preflight
// requests are answered directly.
func CORS(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, user-id")
		h.Set("Access-Control-Expose-Headers", "X-Total-Count, X-Total-Pages, X-Page, X-Page-Size, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
