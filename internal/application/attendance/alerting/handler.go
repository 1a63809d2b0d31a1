// Package alerting turns suspicious heartbeat events into administrator alerts.
package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/domain/shared/events"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

const (
	DefaultCooldown = 30 * time.Minute
	notifyTimeout   = 15 * time.Second
)

// Alert is the payload handed to every notifier.
type Alert struct {
	EmployeeID    uint      `json:"employee_id"`
	SessionID     uint      `json:"session_id"`
	PatternType   string    `json:"pattern_type"`
	PatternDetail string    `json:"pattern_detail,omitempty"`
	ClientIP      string    `json:"client_ip,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Deduplicator grants at most one alert per key until ttl expires.
type Deduplicator interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, alert Alert) error
}

// SuspiciousActivityHandler fans a SuspiciousActivityDetectedEvent out to the
// configured notifiers, at most once per employee and pattern per cooldown.
type SuspiciousActivityHandler struct {
	dedup     Deduplicator
	notifiers []Notifier
	cooldown  time.Duration
	logger    logger.Interface
}

func NewSuspiciousActivityHandler(dedup Deduplicator, cooldown time.Duration, log logger.Interface, notifiers ...Notifier) *SuspiciousActivityHandler {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &SuspiciousActivityHandler{
		dedup:     dedup,
		notifiers: notifiers,
		cooldown:  cooldown,
		logger:    log,
	}
}

func (h *SuspiciousActivityHandler) Handle(event events.DomainEvent) error {
	evt, ok := event.(*attendance.SuspiciousActivityDetectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	alert := Alert{
		EmployeeID:    evt.EmployeeID,
		SessionID:     evt.SessionID,
		PatternType:   evt.PatternOrUnknown(),
		PatternDetail: evt.PatternDetail,
		ClientIP:      evt.ClientIP,
		RecordedAt:    evt.RecordedAt,
	}

	if h.dedup != nil {
		acquired, err := h.dedup.TryAcquire(ctx, CooldownKey(alert.EmployeeID, alert.PatternType), h.cooldown)
		if err != nil {
			// Redis being down must not silence alerts.
			h.logger.Warnw("alert cooldown check failed, sending anyway",
				"employee_id", alert.EmployeeID,
				"error", err)
		} else if !acquired {
			h.logger.Debugw("suspicious activity alert suppressed by cooldown",
				"employee_id", alert.EmployeeID,
				"pattern_type", alert.PatternType)
			return nil
		}
	}

	var failed int
	for _, n := range h.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			failed++
			h.logger.Errorw("failed to deliver suspicious activity alert",
				"notifier", n.Name(),
				"employee_id", alert.EmployeeID,
				"error", err)
		}
	}

	h.logger.Infow("suspicious activity alert dispatched",
		"employee_id", alert.EmployeeID,
		"session_id", alert.SessionID,
		"pattern_type", alert.PatternType,
		"notifiers", len(h.notifiers),
		"failed", failed)

	if failed > 0 && failed == len(h.notifiers) {
		return fmt.Errorf("all %d alert notifiers failed", failed)
	}
	return nil
}

// CooldownKey identifies one alert stream: an employee tripping one pattern.
func CooldownKey(employeeID uint, pattern string) string {
	return fmt.Sprintf("suspicious:%d:%s", employeeID, pattern)
}
