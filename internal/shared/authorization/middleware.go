package authorization

import (
	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/utils"
)

// RequireAdmin rejects requests whose authenticated role is not admin.
// It must run after the auth middleware has populated the role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ParseUserRole(c.GetString(constants.ContextKeyUserRole)).IsAdmin() {
			utils.ErrorResponseWithError(c, errors.NewForbiddenError("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CanAccessEmployeeData reports whether a caller may read another employee's
// attendance data. Admins may read everyone's; employees only their own.
func CanAccessEmployeeData(callerID uint, callerRole UserRole, ownerID uint) bool {
	if callerRole.IsAdmin() {
		return true
	}
	return callerID == ownerID
}
