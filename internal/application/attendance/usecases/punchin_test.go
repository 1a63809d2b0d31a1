package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

func TestPunchIn_CreatesTodaySession(t *testing.T) {
	var created *attendance.Session
	repo := &mockSessionRepository{
		CreateFunc: func(ctx context.Context, s *attendance.Session) error {
			require.NoError(t, s.SetID(11))
			created = s
			return nil
		},
	}
	log := &memoryActivityLog{}
	uc := NewPunchInUseCase(repo, log.repo(), &mockTransactor{}, logger.NewNop())
	uc.now = fixedClock(testNow)

	result, err := uc.Execute(context.Background(), PunchInCommand{Identity: attendance.NewIdentity(testEmpID, false)})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, biztime.StartOfDayUTC(testNow), created.WorkDate())
	assert.Equal(t, uint(11), result.ID)
	assert.Equal(t, attendance.StatusPresent.String(), result.Status)
	require.NotNil(t, result.PunchInAt)
	assert.Equal(t, testNow, *result.PunchInAt)
	assert.True(t, result.IsOpen)

	require.Equal(t, 1, log.len())
	marker := log.entries[0]
	assert.Equal(t, attendance.SourceServer, marker.Source())
	assert.True(t, marker.Active())
	assert.Equal(t, attendance.MarkerPunchIn, marker.Metadata()["marker"])
}

func TestPunchIn_ExistingUnpunchedSession(t *testing.T) {
	existing, err := attendance.ReconstructSession(5, testEmpID, biztime.StartOfDayUTC(testNow), nil, nil,
		0, 0, 0, attendance.StatusAbsent, testNow.Add(-time.Hour), testNow.Add(-time.Hour))
	require.NoError(t, err)

	updated := false
	repo := &mockSessionRepository{
		FindByEmployeeAndDayFunc: func(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*attendance.Session, error) {
			return existing, nil
		},
		CreateFunc: func(ctx context.Context, s *attendance.Session) error {
			t.Fatal("create must not be called")
			return nil
		},
		UpdatePunchesFunc: func(ctx context.Context, s *attendance.Session) error {
			updated = true
			return nil
		},
	}
	uc := NewPunchInUseCase(repo, (&memoryActivityLog{}).repo(), &mockTransactor{}, logger.NewNop())
	uc.now = fixedClock(testNow)

	result, err := uc.Execute(context.Background(), PunchInCommand{Identity: attendance.NewIdentity(testEmpID, false)})

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, uint(5), result.ID)
	assert.Equal(t, attendance.StatusPresent.String(), result.Status)
}

func TestPunchIn_Conflicts(t *testing.T) {
	t.Run("already punched in", func(t *testing.T) {
		repo := &mockSessionRepository{
			FindByEmployeeAndDayFunc: func(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*attendance.Session, error) {
				return openSession(t, 5, testNow.Add(-time.Hour)), nil
			},
		}
		log := &memoryActivityLog{}
		uc := NewPunchInUseCase(repo, log.repo(), &mockTransactor{}, logger.NewNop())
		uc.now = fixedClock(testNow)

		_, err := uc.Execute(context.Background(), PunchInCommand{Identity: attendance.NewIdentity(testEmpID, false)})

		assert.True(t, apperrors.IsConflictError(err))
		assert.Zero(t, log.len())
	})

	t.Run("concurrent create hits unique index", func(t *testing.T) {
		repo := &mockSessionRepository{
			CreateFunc: func(ctx context.Context, s *attendance.Session) error {
				return errors.New("UNIQUE constraint failed: attendance_sessions.employee_id, attendance_sessions.work_date")
			},
		}
		uc := NewPunchInUseCase(repo, (&memoryActivityLog{}).repo(), &mockTransactor{}, logger.NewNop())
		uc.now = fixedClock(testNow)

		_, err := uc.Execute(context.Background(), PunchInCommand{Identity: attendance.NewIdentity(testEmpID, false)})

		assert.True(t, apperrors.IsConflictError(err))
		assert.Equal(t, "already punched in", apperrors.GetAppError(err).Message)
	})
}
