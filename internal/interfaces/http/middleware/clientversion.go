package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
	"github.com/Tatu1984/hrms-sub001/internal/shared/utils"
	"github.com/Tatu1984/hrms-sub001/internal/shared/version"
)

// MinClientVersion rejects heartbeat emitters that announce a version below
// minimum with 426. Requests without the header pass, as do all requests when
// minimum is empty.
func MinClientVersion(minimum string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientVersion := c.GetHeader(constants.HeaderClientVersion)
		if minimum == "" || clientVersion == "" || !version.Older(clientVersion, minimum) {
			c.Next()
			return
		}

		log.Debugw("outdated client rejected",
			"client_version", clientVersion,
			"min_version", minimum,
			"ip", c.ClientIP())
		utils.AbortWithError(c, apperrors.NewUpgradeRequiredError(
			fmt.Sprintf("client version %s is no longer supported, upgrade to %s or later", clientVersion, minimum)))
	}
}
