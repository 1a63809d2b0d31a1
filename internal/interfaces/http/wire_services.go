package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/alerting"
	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/domain/shared/events"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/auth"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/cache"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/email"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/pubsub"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/ratelimit"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/middleware"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

const eventBufferSize = 256

// initInfrastructure initializes Redis, repositories, auth and the early
// middlewares.
func (c *Container) initInfrastructure() {
	if c.redis == nil {
		c.redis = InitRedis(c.cfg, c.log)
	}

	c.repos = newRepositories(c.db)

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	perMinute := c.cfg.Attendance.HeartbeatRateLimit
	c.heartbeatLimiter = middleware.NewRateLimiter(
		ratelimit.NewRedisRateLimiter(c.redis),
		"heartbeat",
		ratelimit.RateLimitConfig{RequestsPerMinute: perMinute, RequestsPerHour: perMinute * 20},
		c.log,
	)
}

// initEvents starts the domain event dispatcher and subscribes the
// suspicious-activity alert fan-out to it.
func (c *Container) initEvents() error {
	c.eventDispatcher = events.NewDispatcher(eventBufferSize, c.log)

	c.alertBus = pubsub.NewRedisAlertBus(c.redis, c.log)
	notifiers := []alerting.Notifier{
		alerting.NewLogNotifier(c.log),
		c.alertBus,
	}
	if c.cfg.Email.Enabled {
		notifiers = append(notifiers, email.NewSMTPAlertNotifier(email.SMTPConfig{
			Host:        c.cfg.Email.SMTPHost,
			Port:        c.cfg.Email.SMTPPort,
			Username:    c.cfg.Email.SMTPUser,
			Password:    c.cfg.Email.SMTPPassword,
			FromAddress: c.cfg.Email.FromAddress,
			FromName:    c.cfg.Email.FromName,
			Recipients:  c.cfg.Email.AlertTo,
		}))
	}

	alertHandler := alerting.NewSuspiciousActivityHandler(
		cache.NewAlertDeduplicator(c.redis),
		c.cfg.Attendance.AlertCooldown(),
		c.log,
		notifiers...,
	)
	if err := c.eventDispatcher.Subscribe(attendance.EventTypeSuspiciousActivity, alertHandler); err != nil {
		return fmt.Errorf("failed to subscribe alert handler: %w", err)
	}

	if err := c.eventDispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	c.log.Infow("event dispatcher started", "notifiers", len(notifiers))

	return nil
}

// InitRedis creates and tests the Redis client connection.
func InitRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("failed to connect to Redis", "error", err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}

// NewPolicy maps the attendance configuration onto the accounting policy
// shared by ingestion and recalculation.
func NewPolicy(cfg *config.Config) attendance.Policy {
	return attendance.Policy{
		HeartbeatInterval:     cfg.Attendance.HeartbeatInterval(),
		IdleGraceHours:        cfg.Attendance.IdleGraceHours,
		UpdateToleranceHours:  cfg.Attendance.UpdateToleranceHours,
		HalfDayThresholdHours: cfg.Attendance.HalfDayThresholdHours,
	}.Normalize()
}
