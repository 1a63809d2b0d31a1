package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/middleware"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/routes"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
	"github.com/Tatu1984/hrms-sub001/internal/shared/version"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, redisClient, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", r.health)

	api := r.engine.Group("/api/v1")

	routes.SetupAttendanceRoutes(api, &routes.AttendanceRouteConfig{
		Handler:          r.hdlrs.attendance,
		AuthMiddleware:   r.authMiddleware,
		HeartbeatLimiter: r.heartbeatLimiter,
		ClientVersion:    middleware.MinClientVersion(r.cfg.Attendance.MinClientVersion, r.log),
	})

	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		AttendanceHandler: r.hdlrs.adminAttendance,
		AuthMiddleware:    r.authMiddleware,
	})
}

// health reports database and Redis reachability.
func (r *Router) health(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}

	if sqlDB, err := r.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := r.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  http.StatusText(status),
		"version": version.Build,
		"time":    biztime.NowUTC(),
		"checks":  checks,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
