package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/domain/shared/events"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
)

type mockSessionRepository struct {
	CreateFunc               func(ctx context.Context, s *attendance.Session) error
	GetByIDFunc              func(ctx context.Context, id uint) (*attendance.Session, error)
	FindByEmployeeAndDayFunc func(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*attendance.Session, error)
	UpdatePunchesFunc        func(ctx context.Context, s *attendance.Session) error
	UpdateAggregatesFunc     func(ctx context.Context, s *attendance.Session) error
	ListCompletedFunc        func(ctx context.Context, filter attendance.CompletedSessionFilter) ([]*attendance.Session, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, s *attendance.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id uint) (*attendance.Session, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, attendance.ErrSessionNotFound
}

func (m *mockSessionRepository) FindByEmployeeAndDay(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*attendance.Session, error) {
	if m.FindByEmployeeAndDayFunc != nil {
		return m.FindByEmployeeAndDayFunc(ctx, employeeID, dayStart, dayEnd)
	}
	return nil, attendance.ErrSessionNotFound
}

func (m *mockSessionRepository) UpdatePunches(ctx context.Context, s *attendance.Session) error {
	if m.UpdatePunchesFunc != nil {
		return m.UpdatePunchesFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) UpdateAggregates(ctx context.Context, s *attendance.Session) error {
	if m.UpdateAggregatesFunc != nil {
		return m.UpdateAggregatesFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) ListCompleted(ctx context.Context, filter attendance.CompletedSessionFilter) ([]*attendance.Session, error) {
	if m.ListCompletedFunc != nil {
		return m.ListCompletedFunc(ctx, filter)
	}
	return nil, nil
}

type mockActivityLogRepository struct {
	AppendFunc        func(ctx context.Context, e *attendance.ActivityEntry) error
	CountIdleFunc     func(ctx context.Context, sessionID uint, source attendance.Source) (int64, error)
	ListBySessionFunc func(ctx context.Context, sessionID uint) ([]*attendance.ActivityEntry, error)
}

func (m *mockActivityLogRepository) Append(ctx context.Context, e *attendance.ActivityEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, e)
	}
	return nil
}

func (m *mockActivityLogRepository) CountIdle(ctx context.Context, sessionID uint, source attendance.Source) (int64, error) {
	if m.CountIdleFunc != nil {
		return m.CountIdleFunc(ctx, sessionID, source)
	}
	return 0, nil
}

func (m *mockActivityLogRepository) ListBySession(ctx context.Context, sessionID uint) ([]*attendance.ActivityEntry, error) {
	if m.ListBySessionFunc != nil {
		return m.ListBySessionFunc(ctx, sessionID)
	}
	return nil, nil
}

// memoryActivityLog backs a mockActivityLogRepository with a slice so idle
// counts follow what was actually appended.
type memoryActivityLog struct {
	mu      sync.Mutex
	entries []*attendance.ActivityEntry
}

func (l *memoryActivityLog) repo() *mockActivityLogRepository {
	return &mockActivityLogRepository{
		AppendFunc: func(ctx context.Context, e *attendance.ActivityEntry) error {
			l.mu.Lock()
			defer l.mu.Unlock()
			_ = e.SetID(uint(len(l.entries) + 1))
			l.entries = append(l.entries, e)
			return nil
		},
		CountIdleFunc: func(ctx context.Context, sessionID uint, source attendance.Source) (int64, error) {
			l.mu.Lock()
			defer l.mu.Unlock()
			var n int64
			for _, e := range l.entries {
				if e.SessionID() == sessionID && e.Source() == source && !e.Active() {
					n++
				}
			}
			return n, nil
		},
		ListBySessionFunc: func(ctx context.Context, sessionID uint) ([]*attendance.ActivityEntry, error) {
			l.mu.Lock()
			defer l.mu.Unlock()
			var out []*attendance.ActivityEntry
			for _, e := range l.entries {
				if e.SessionID() == sessionID {
					out = append(out, e)
				}
			}
			return out, nil
		},
	}
}

func (l *memoryActivityLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *memoryActivityLog) add(e *attendance.ActivityEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

type mockTransactor struct {
	calls int
	mu    sync.Mutex
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

type mockEventPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
	err       error
}

func (m *mockEventPublisher) Publish(event events.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return m.err
}

type mockSanitizer struct {
	SanitizeFunc func(s string) string
}

func (m *mockSanitizer) Sanitize(s string) string {
	if m.SanitizeFunc != nil {
		return m.SanitizeFunc(s)
	}
	return s
}

var (
	testNow   = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	testEmpID = uint(42)
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// openSession is a session punched in at punchIn and not yet closed.
func openSession(t *testing.T, id uint, punchIn time.Time) *attendance.Session {
	t.Helper()
	in := punchIn
	s, err := attendance.ReconstructSession(id, testEmpID, biztime.StartOfDayUTC(punchIn), &in, nil,
		0, 0, 0, attendance.StatusPresent, punchIn, punchIn)
	require.NoError(t, err)
	return s
}

func closedSession(t *testing.T, id uint, punchIn, punchOut time.Time, breakHours, idle, work float64) *attendance.Session {
	t.Helper()
	in, out := punchIn, punchOut
	s, err := attendance.ReconstructSession(id, testEmpID, biztime.StartOfDayUTC(punchIn), &in, &out,
		breakHours, idle, work, attendance.StatusPresent, punchIn, punchOut)
	require.NoError(t, err)
	return s
}

func boolPtr(b bool) *bool { return &b }
