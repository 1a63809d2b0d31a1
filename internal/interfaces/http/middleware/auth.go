package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/auth"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
	"github.com/Tatu1984/hrms-sub001/internal/shared/utils"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth resolves the caller's employee id and role from the bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.AbortWithError(c, apperrors.NewUnauthorizedError("missing authorization token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			utils.AbortWithError(c, apperrors.NewUnauthorizedError("invalid authorization header format"))
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token",
				"error", err,
				"client_ip", c.ClientIP(),
			)
			utils.AbortWithError(c, apperrors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		c.Set(constants.ContextKeyEmployeeID, claims.EmployeeID)
		c.Set(constants.ContextKeyUserRole, string(claims.Role))

		c.Next()
	}
}
