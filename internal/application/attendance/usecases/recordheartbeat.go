package usecases

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/domain/shared/events"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/db"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

const (
	maxPatternTypeLength   = 64
	maxPatternDetailLength = 512
)

type RecordHeartbeatCommand struct {
	Identity       attendance.Identity
	Active         *bool
	Suspicious     *bool
	PatternType    string
	PatternDetails string
	ClientIP       string
	UserAgent      string
	RequestID      string
}

type RecordHeartbeatResult struct {
	SessionID       uint
	IdleTimeHours   float64
	EffectiveActive bool
	BotDetected     bool
	LastHeartbeat   time.Time
}

// RecordHeartbeatUseCase appends one heartbeat to today's open session and
// recounts the session's idle time from the full log.
type RecordHeartbeatUseCase struct {
	sessionRepo     attendance.SessionRepository
	activityRepo    attendance.ActivityLogRepository
	txMgr           db.Transactor
	sanitizer       PatternSanitizer
	eventDispatcher events.Publisher
	policy          attendance.Policy
	logger          logger.Interface
	now             func() time.Time
}

func NewRecordHeartbeatUseCase(
	sessionRepo attendance.SessionRepository,
	activityRepo attendance.ActivityLogRepository,
	txMgr db.Transactor,
	sanitizer PatternSanitizer,
	eventDispatcher events.Publisher,
	policy attendance.Policy,
	logger logger.Interface,
) *RecordHeartbeatUseCase {
	return &RecordHeartbeatUseCase{
		sessionRepo:     sessionRepo,
		activityRepo:    activityRepo,
		txMgr:           txMgr,
		sanitizer:       sanitizer,
		eventDispatcher: eventDispatcher,
		policy:          policy.Normalize(),
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

func (uc *RecordHeartbeatUseCase) Execute(ctx context.Context, cmd RecordHeartbeatCommand) (*RecordHeartbeatResult, error) {
	if cmd.Identity.IsZero() {
		return nil, errors.NewUnauthorizedError("employee identity is required")
	}

	active := true
	if cmd.Active != nil {
		active = *cmd.Active
	}
	suspicious := false
	if cmd.Suspicious != nil {
		suspicious = *cmd.Suspicious
	}
	patternType := truncate(strings.TrimSpace(cmd.PatternType), maxPatternTypeLength)
	patternDetail := truncate(uc.sanitize(cmd.PatternDetails), maxPatternDetailLength)

	now := uc.now()
	dayStart, dayEnd := biztime.DayRangeUTC(now)

	var session *attendance.Session
	var entry *attendance.ActivityEntry

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		session, err = uc.sessionRepo.FindByEmployeeAndDay(txCtx, cmd.Identity.EmployeeID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if err := session.CanAcceptHeartbeat(); err != nil {
			return err
		}

		entry, err = attendance.NewHeartbeatEntry(
			session.ID(), now, active, suspicious, patternType, patternDetail,
			heartbeatMetadata(cmd),
		)
		if err != nil {
			return err
		}
		if err := uc.activityRepo.Append(txCtx, entry); err != nil {
			return err
		}

		idleCount, err := uc.activityRepo.CountIdle(txCtx, session.ID(), attendance.SourceClient)
		if err != nil {
			return err
		}
		session.ApplyIdleHours(uc.policy.IdleHours(idleCount), now)

		return uc.sessionRepo.UpdateAggregates(txCtx, session)
	})
	if err != nil {
		if isPrecondition(err) {
			uc.logger.Infow("heartbeat rejected",
				"employee_id", cmd.Identity.EmployeeID,
				"reason", err.Error())
		} else {
			uc.logger.Errorw("failed to record heartbeat",
				"employee_id", cmd.Identity.EmployeeID,
				"error", err)
		}
		return nil, toAppError(err, "failed to record heartbeat")
	}

	if suspicious {
		uc.raiseSuspiciousActivity(session, entry, cmd.ClientIP)
	}

	uc.logger.Debugw("heartbeat recorded",
		"employee_id", cmd.Identity.EmployeeID,
		"session_id", session.ID(),
		"effective_active", entry.Active(),
		"idle_hours", session.IdleHours())

	return &RecordHeartbeatResult{
		SessionID:       session.ID(),
		IdleTimeHours:   session.IdleHours(),
		EffectiveActive: entry.Active(),
		BotDetected:     suspicious,
		LastHeartbeat:   now,
	}, nil
}

func (uc *RecordHeartbeatUseCase) raiseSuspiciousActivity(session *attendance.Session, entry *attendance.ActivityEntry, clientIP string) {
	uc.logger.Warnw("suspicious heartbeat pattern detected",
		"employee_id", session.EmployeeID(),
		"session_id", session.ID(),
		"pattern_type", entry.PatternType(),
		"pattern_detail", entry.PatternDetail())

	if uc.eventDispatcher == nil {
		return
	}
	evt := attendance.NewSuspiciousActivityDetectedEvent(
		session.EmployeeID(), session.ID(), entry.PatternType(), entry.PatternDetail(), clientIP, entry.RecordedAt(),
	)
	if err := uc.eventDispatcher.Publish(evt); err != nil {
		uc.logger.Warnw("failed to publish suspicious activity event", "session_id", session.ID(), "error", err)
	}
}

func (uc *RecordHeartbeatUseCase) sanitize(s string) string {
	s = strings.TrimSpace(s)
	if uc.sanitizer == nil || s == "" {
		return s
	}
	return uc.sanitizer.Sanitize(s)
}

func heartbeatMetadata(cmd RecordHeartbeatCommand) map[string]interface{} {
	meta := make(map[string]interface{}, 3)
	if cmd.ClientIP != "" {
		meta["client_ip"] = cmd.ClientIP
	}
	if cmd.UserAgent != "" {
		meta["user_agent"] = truncate(cmd.UserAgent, 255)
	}
	if cmd.RequestID != "" {
		meta["request_id"] = cmd.RequestID
	}
	return meta
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
