package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// seedIdle appends n inactive client heartbeats and one server marker.
func seedIdle(t *testing.T, log *memoryActivityLog, sessionID uint, from time.Time, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		e, err := attendance.NewHeartbeatEntry(sessionID, from.Add(time.Duration(i)*3*time.Minute), false, false, "", "", nil)
		require.NoError(t, err)
		log.add(e)
	}
	marker, err := attendance.NewServerMarker(sessionID, from, attendance.MarkerPunchIn)
	require.NoError(t, err)
	log.add(marker)
}

func newRecomputeUseCase(sessions map[uint]*attendance.Session, log *memoryActivityLog, writes *int) *RecomputeWorkHoursUseCase {
	repo := &mockSessionRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*attendance.Session, error) {
			s, ok := sessions[id]
			if !ok {
				return nil, attendance.ErrSessionNotFound
			}
			return s, nil
		},
		UpdateAggregatesFunc: func(ctx context.Context, s *attendance.Session) error {
			*writes++
			return nil
		},
	}
	uc := NewRecomputeWorkHoursUseCase(repo, log.repo(), &mockTransactor{}, attendance.DefaultPolicy(), logger.NewNop())
	uc.now = fixedClock(testNow)
	return uc
}

func TestRecomputeWorkHours_AppliesPenaltyAndIsIdempotent(t *testing.T) {
	punchIn := testNow.Add(-10 * time.Hour)
	session := closedSession(t, 3, punchIn, punchIn.Add(9*time.Hour), 1, 0, 0)
	log := &memoryActivityLog{}
	seedIdle(t, log, 3, punchIn, 40)

	writes := 0
	uc := newRecomputeUseCase(map[uint]*attendance.Session{3: session}, log, &writes)

	first, err := uc.Execute(context.Background(), RecomputeWorkHoursCommand{SessionID: 3})
	require.NoError(t, err)
	assert.True(t, first.Updated)
	assert.InDelta(t, 2.0, first.IdleTimeHours, 1e-9)
	assert.InDelta(t, 5.0, first.WorkHours, 1e-9)
	require.NotNil(t, first.Breakdown)
	assert.InDelta(t, 6.0, first.Breakdown.RawHours, 1e-9)
	assert.InDelta(t, 1.0, first.Breakdown.PenaltyHours, 1e-9)
	assert.InDelta(t, 5.0, session.WorkHours(), 1e-9)

	second, err := uc.Execute(context.Background(), RecomputeWorkHoursCommand{SessionID: 3})
	require.NoError(t, err)
	assert.False(t, second.Updated)
	assert.False(t, second.Changed)
	assert.Equal(t, first.WorkHours, second.WorkHours)
	assert.Equal(t, 1, writes)
}

func TestRecomputeWorkHours_WithinToleranceIsNotWritten(t *testing.T) {
	punchIn := testNow.Add(-10 * time.Hour)
	session := closedSession(t, 3, punchIn, punchIn.Add(8*time.Hour), 0.5, 0, 7.495)
	writes := 0
	uc := newRecomputeUseCase(map[uint]*attendance.Session{3: session}, &memoryActivityLog{}, &writes)

	result, err := uc.Execute(context.Background(), RecomputeWorkHoursCommand{SessionID: 3})

	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.InDelta(t, 7.5, result.WorkHours, 1e-9)
	assert.Zero(t, writes)
}

func TestRecomputeWorkHours_DryRunReportsWithoutWriting(t *testing.T) {
	punchIn := testNow.Add(-10 * time.Hour)
	session := closedSession(t, 3, punchIn, punchIn.Add(4*time.Hour), 0, 0, 4)
	log := &memoryActivityLog{}
	seedIdle(t, log, 3, punchIn, 80)
	writes := 0
	uc := newRecomputeUseCase(map[uint]*attendance.Session{3: session}, log, &writes)

	result, err := uc.Execute(context.Background(), RecomputeWorkHoursCommand{SessionID: 3, DryRun: true})

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, result.Updated)
	assert.Zero(t, result.WorkHours)
	assert.InDelta(t, 4.0, result.IdleTimeHours, 1e-9)
	assert.InDelta(t, 4.0, session.WorkHours(), 1e-9)
	assert.Zero(t, writes)
}

func TestRecomputeWorkHours_SkipsOpenSession(t *testing.T) {
	session := openSession(t, 3, testNow.Add(-time.Hour))
	writes := 0
	uc := newRecomputeUseCase(map[uint]*attendance.Session{3: session}, &memoryActivityLog{}, &writes)

	result, err := uc.Execute(context.Background(), RecomputeWorkHoursCommand{SessionID: 3})

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.False(t, result.Updated)
	assert.Zero(t, writes)
}

func TestRecomputeWorkHours_Errors(t *testing.T) {
	writes := 0
	uc := newRecomputeUseCase(map[uint]*attendance.Session{}, &memoryActivityLog{}, &writes)

	_, err := uc.Execute(context.Background(), RecomputeWorkHoursCommand{})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), RecomputeWorkHoursCommand{SessionID: 99})
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Equal(t, "attendance session not found", apperrors.GetAppError(err).Message)

	punchIn := testNow.Add(-10 * time.Hour)
	session := closedSession(t, 3, punchIn, punchIn.Add(time.Hour), 0, 0, 0)
	failing := newRecomputeUseCase(map[uint]*attendance.Session{3: session}, &memoryActivityLog{}, &writes)
	failing.calc.activityRepo = &mockActivityLogRepository{
		CountIdleFunc: func(ctx context.Context, sessionID uint, source attendance.Source) (int64, error) {
			return 0, errors.New("disk I/O error")
		},
	}
	_, err = failing.Execute(context.Background(), RecomputeWorkHoursCommand{SessionID: 3})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
}
