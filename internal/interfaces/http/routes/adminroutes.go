package routes

import (
	"github.com/gin-gonic/gin"

	adminhandlers "github.com/Tatu1984/hrms-sub001/internal/interfaces/http/handlers/admin"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/middleware"
	"github.com/Tatu1984/hrms-sub001/internal/shared/authorization"
)

type AdminRouteConfig struct {
	AttendanceHandler *adminhandlers.AttendanceHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func SetupAdminRoutes(api *gin.RouterGroup, config *AdminRouteConfig) {
	admin := api.Group("/admin")
	admin.Use(config.AuthMiddleware.RequireAuth(), authorization.RequireAdmin())
	{
		admin.POST("/attendance/sessions/:id/recompute", config.AttendanceHandler.RecomputeSession)
		admin.POST("/attendance/recompute", config.AttendanceHandler.Backfill)
	}
}
