package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
)

var (
	corsAllowHeaders = strings.Join([]string{
		constants.HeaderContentType,
		constants.HeaderAuthorization,
		constants.HeaderXRequestID,
		constants.HeaderClientVersion,
		"Accept",
	}, ", ")
	corsExposeHeaders = strings.Join([]string{constants.HeaderXRequestID}, ", ")
)

// CORS lets the browser dashboard on allowedOrigins call the API. Other
// origins get no Access-Control-Allow-Origin and the browser blocks them.
// Preflights are answered here with 204.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && slices.Contains(allowedOrigins, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", "600")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SecurityHeaders marks every response as non-embeddable JSON.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}
