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

func TestGetTodayAttendance_NoSession(t *testing.T) {
	uc := NewGetTodayAttendanceUseCase(&mockSessionRepository{}, &mockActivityLogRepository{}, attendance.DefaultPolicy(), logger.NewNop())
	uc.now = fixedClock(testNow)

	result, err := uc.Execute(context.Background(), GetTodayAttendanceQuery{Identity: attendance.NewIdentity(testEmpID, false)})

	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", result.Date)
	assert.False(t, result.PunchedIn)
	assert.Nil(t, result.Session)
	assert.Nil(t, result.Activity)
}

func TestGetTodayAttendance_WithActivity(t *testing.T) {
	punchIn := testNow.Add(-time.Hour)
	session := openSession(t, 4, punchIn)
	log := &memoryActivityLog{}
	seedIdle(t, log, 4, punchIn, 3)
	active, err := attendance.NewHeartbeatEntry(4, punchIn.Add(30*time.Minute), true, false, "", "", nil)
	require.NoError(t, err)
	log.add(active)

	repo := &mockSessionRepository{
		FindByEmployeeAndDayFunc: func(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*attendance.Session, error) {
			return session, nil
		},
	}
	uc := NewGetTodayAttendanceUseCase(repo, log.repo(), attendance.DefaultPolicy(), logger.NewNop())
	uc.now = fixedClock(testNow)

	result, err := uc.Execute(context.Background(), GetTodayAttendanceQuery{Identity: attendance.NewIdentity(testEmpID, false)})

	require.NoError(t, err)
	assert.True(t, result.PunchedIn)
	assert.False(t, result.PunchedOut)
	require.NotNil(t, result.Session)
	assert.Equal(t, uint(4), result.Session.ID)
	require.NotNil(t, result.Activity)
	assert.Equal(t, 5, result.Activity.TotalEntries)
	assert.Equal(t, 4, result.Activity.ClientHeartbeats)
	assert.Equal(t, 3, result.Activity.IdleHeartbeats)
	assert.Equal(t, 1, result.Activity.ActiveHeartbeats)
}

func TestGetTodayAttendance_StorageFailure(t *testing.T) {
	repo := &mockSessionRepository{
		FindByEmployeeAndDayFunc: func(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*attendance.Session, error) {
			return nil, errors.New("bad connection")
		},
	}
	uc := NewGetTodayAttendanceUseCase(repo, &mockActivityLogRepository{}, attendance.DefaultPolicy(), logger.NewNop())

	_, err := uc.Execute(context.Background(), GetTodayAttendanceQuery{Identity: attendance.NewIdentity(testEmpID, false)})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
}

func TestGetActivitySummary_Access(t *testing.T) {
	punchIn := testNow.Add(-2 * time.Hour)
	session := openSession(t, 4, punchIn)
	log := &memoryActivityLog{}
	for i, flagged := range []bool{false, true, true, false} {
		e, err := attendance.NewHeartbeatEntry(4, punchIn.Add(time.Duration(i)*3*time.Minute), true, flagged, "identical-coordinates", "", nil)
		require.NoError(t, err)
		log.add(e)
	}

	repo := &mockSessionRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*attendance.Session, error) {
			if id == 4 {
				return session, nil
			}
			return nil, attendance.ErrSessionNotFound
		},
	}
	uc := NewGetActivitySummaryUseCase(repo, log.repo(), attendance.DefaultPolicy(), logger.NewNop())

	tests := []struct {
		name     string
		identity attendance.Identity
		id       uint
		wantErr  apperrors.ErrorType
	}{
		{"owner", attendance.NewIdentity(testEmpID, false), 4, ""},
		{"admin", attendance.NewIdentity(1, true), 4, ""},
		{"other employee", attendance.NewIdentity(77, false), 4, apperrors.ErrorTypeForbidden},
		{"unknown session", attendance.NewIdentity(testEmpID, false), 5, apperrors.ErrorTypeNotFound},
		{"missing id", attendance.NewIdentity(testEmpID, false), 0, apperrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), GetActivitySummaryQuery{Identity: tt.identity, SessionID: tt.id})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperrors.GetAppError(err).Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 4, result.ClientHeartbeats)
			assert.Equal(t, 2, result.SuspiciousEntries)
			assert.Equal(t, 2, result.IdleHeartbeats)
			assert.Equal(t, map[string]int{"identical-coordinates": 2}, result.Patterns)
			assert.InDelta(t, 6.0, result.LongestIdleStreakMinutes, 1e-9)
		})
	}
}
