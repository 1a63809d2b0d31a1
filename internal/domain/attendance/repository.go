package attendance

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// GetByID returns ErrSessionNotFound when no row matches.
	GetByID(ctx context.Context, id uint) (*Session, error)
	// FindByEmployeeAndDay returns the session whose work date falls in
	// [dayStart, dayEnd), or ErrSessionNotFound.
	FindByEmployeeAndDay(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*Session, error)
	UpdatePunches(ctx context.Context, session *Session) error
	// UpdateAggregates writes idle hours, work hours and status only.
	UpdateAggregates(ctx context.Context, session *Session) error
	// ListCompleted returns sessions with both punches set, ordered by id.
	ListCompleted(ctx context.Context, filter CompletedSessionFilter) ([]*Session, error)
}

// CompletedSessionFilter pages completed sessions by id. Zero From/To are open bounds.
type CompletedSessionFilter struct {
	AfterID uint
	Limit   int
	From    time.Time
	To      time.Time
}

// ActivityLogRepository is append-only: entries are never updated or deleted
// individually. They go away only with their session.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *ActivityEntry) error
	// CountIdle counts inactive entries of the session written by source.
	CountIdle(ctx context.Context, sessionID uint, source Source) (int64, error)
	// ListBySession returns entries in timestamp order.
	ListBySession(ctx context.Context, sessionID uint) ([]*ActivityEntry, error)
}
