package alerting

import (
	"context"

	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// LogNotifier writes alerts to the log. It is always registered so alerts
// stay visible when neither Redis nor SMTP is configured.
type LogNotifier struct {
	logger logger.Interface
}

func NewLogNotifier(log logger.Interface) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, alert Alert) error {
	n.logger.Warnw("ALERT: automated input suspected",
		"employee_id", alert.EmployeeID,
		"session_id", alert.SessionID,
		"pattern_type", alert.PatternType,
		"pattern_detail", alert.PatternDetail,
		"client_ip", alert.ClientIP,
		"recorded_at", alert.RecordedAt)
	return nil
}
