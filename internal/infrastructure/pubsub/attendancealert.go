package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/alerting"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/goroutine"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// SuspiciousActivityChannel carries one JSON AlertMessage per alert.
const SuspiciousActivityChannel = "hrms:attendance:suspicious"

// AlertMessage is the wire envelope on SuspiciousActivityChannel.
type AlertMessage struct {
	ID          string         `json:"id"`
	InstanceID  string         `json:"instance_id"`
	PublishedAt int64          `json:"published_at"`
	Alert       alerting.Alert `json:"alert"`
}

// RedisAlertBus publishes suspicious activity alerts to Redis Pub/Sub so
// dashboards and other instances can follow them live.
type RedisAlertBus struct {
	client     *redis.Client
	logger     logger.Interface
	instanceID string
}

func NewRedisAlertBus(client *redis.Client, logger logger.Interface) *RedisAlertBus {
	return &RedisAlertBus{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

func (b *RedisAlertBus) Name() string { return "redis" }

// Notify publishes alert. It satisfies alerting.Notifier.
func (b *RedisAlertBus) Notify(ctx context.Context, alert alerting.Alert) error {
	msg := AlertMessage{
		ID:          uuid.NewString(),
		InstanceID:  b.instanceID,
		PublishedAt: biztime.NowUTC().Unix(),
		Alert:       alert,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal alert message: %w", err)
	}

	if err := b.client.Publish(ctx, SuspiciousActivityChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}

	b.logger.Debugw("suspicious activity alert published",
		"employee_id", alert.EmployeeID,
		"message_id", msg.ID)
	return nil
}

// Subscribe delivers alerts to handler until ctx is done, reconnecting with
// exponential backoff when the subscription drops.
func (b *RedisAlertBus) Subscribe(ctx context.Context, handler func(msg AlertMessage)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("alert subscription disconnected, reconnecting",
			"channel", SuspiciousActivityChannel,
			"error", err,
			"backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisAlertBus) subscribe(ctx context.Context, handler func(msg AlertMessage)) error {
	ps := b.client.Subscribe(ctx, SuspiciousActivityChannel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", SuspiciousActivityChannel, err)
	}

	b.logger.Infow("subscribed to alert channel", "channel", SuspiciousActivityChannel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case m, ok := <-ch:
			if !ok {
				return nil
			}

			var msg AlertMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				b.logger.Warnw("failed to unmarshal alert message",
					"payload", m.Payload,
					"error", err)
				continue
			}
			goroutine.SafeGo(b.logger, "alert-subscriber", func() {
				handler(msg)
			}, "message_id", msg.ID, "employee_id", msg.Alert.EmployeeID)
		}
	}
}
