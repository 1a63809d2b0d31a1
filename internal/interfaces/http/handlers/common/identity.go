// Package common provides shared HTTP handler utilities.
package common

import (
	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/authorization"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
)

// Identity returns the caller the auth middleware resolved. ok is false when
// the request carries no employee.
func Identity(c *gin.Context) (attendance.Identity, bool) {
	raw, exists := c.Get(constants.ContextKeyEmployeeID)
	if !exists {
		return attendance.Identity{}, false
	}

	employeeID, ok := raw.(uint)
	if !ok || employeeID == 0 {
		return attendance.Identity{}, false
	}

	role := authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole))
	return attendance.NewIdentity(employeeID, role.IsAdmin()), true
}
