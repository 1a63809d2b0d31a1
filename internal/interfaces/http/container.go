package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/domain/shared/events"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/auth"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/pubsub"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/middleware"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases and handlers of
// the HTTP server and owns their shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware   *middleware.AuthMiddleware
	heartbeatLimiter *middleware.RateLimiter

	jwtSvc          *auth.JWTService
	eventDispatcher *events.Dispatcher
	alertBus        *pubsub.RedisAlertBus
}

// NewContainer wires every component. redisClient may be nil, in which case
// one is created from configuration.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	c.initInfrastructure()

	if err := c.initEvents(); err != nil {
		return nil, err
	}

	c.ucs = c.newUseCases()
	c.hdlrs = c.newHandlers()

	return c, nil
}

// Shutdown drains pending domain events and closes Redis.
func (c *Container) Shutdown() {
	if c.eventDispatcher != nil {
		if err := c.eventDispatcher.Stop(); err != nil {
			c.log.Warnw("failed to stop event dispatcher", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
