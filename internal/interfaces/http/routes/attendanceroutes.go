package routes

import (
	"github.com/gin-gonic/gin"

	attendancehandlers "github.com/Tatu1984/hrms-sub001/internal/interfaces/http/handlers/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/middleware"
)

type AttendanceRouteConfig struct {
	Handler          *attendancehandlers.Handler
	AuthMiddleware   *middleware.AuthMiddleware
	HeartbeatLimiter *middleware.RateLimiter
	ClientVersion    gin.HandlerFunc
}

func SetupAttendanceRoutes(api *gin.RouterGroup, config *AttendanceRouteConfig) {
	attendance := api.Group("/attendance")
	attendance.Use(config.AuthMiddleware.RequireAuth())
	{
		attendance.POST("/punch-in", config.Handler.PunchIn)
		attendance.POST("/punch-out", config.Handler.PunchOut)
		attendance.POST("/heartbeat",
			config.ClientVersion,
			config.HeartbeatLimiter.Limit(),
			config.Handler.Heartbeat)

		attendance.GET("/today", config.Handler.Today)
		attendance.GET("/sessions/:id/activity", config.Handler.SessionActivity)
	}
}
