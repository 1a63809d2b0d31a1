package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// Logger writes one line per request. Every tracked employee sends a heartbeat
// every few minutes, so successful requests go to debug and only failures
// surface at warn or error.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if id := c.GetString(constants.ContextKeyRequestID); id != "" {
			fields = append(fields, "request_id", id)
		}
		if employeeID, ok := c.Get(constants.ContextKeyEmployeeID); ok {
			fields = append(fields, "employee_id", employeeID)
		}
		if v := c.GetHeader(constants.HeaderClientVersion); v != "" {
			fields = append(fields, "client_version", v)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("request rejected", fields...)
		default:
			log.Debugw("request served", fields...)
		}
	}
}
