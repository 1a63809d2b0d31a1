package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/ratelimit"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
	"github.com/Tatu1984/hrms-sub001/internal/shared/utils"
)

// RateLimiter throttles requests per authenticated employee, falling back to
// the client IP for anonymous requests.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	scope   string
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, config ratelimit.RateLimitConfig, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		config:  config,
		scope:   scope,
		logger:  log,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.key(c)

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.config)
		if err != nil {
			// Redis being down must not block attendance tracking.
			rl.logger.Warnw("rate limiter unavailable, allowing request",
				"key", key,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			utils.AbortWithError(c, apperrors.NewRateLimitedError("too many heartbeats, please try again later"))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) key(c *gin.Context) string {
	if employeeID, ok := c.Get(constants.ContextKeyEmployeeID); ok {
		return fmt.Sprintf("%s:employee:%v", rl.scope, employeeID)
	}
	return fmt.Sprintf("%s:ip:%s", rl.scope, c.ClientIP())
}
