package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, 3, 11, 3, 30, 0, 0, time.UTC)

func hoursAfter(h float64) time.Time {
	return base.Add(time.Duration(h * float64(time.Hour)))
}

func TestComputeWorkHours_Examples(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     float64
		breakHours  float64
		idle        float64
		wantRaw     float64
		wantPenalty float64
		wantWork    float64
	}{
		{"idle beyond grace is penalized", 9, 1, 2, 6, 1, 5},
		{"no idle means no penalty", 8, 0.5, 0, 7.5, 0, 7.5},
		{"negative result clamps to zero", 4, 0, 4, 0, 3, 0},
		{"idle within grace", 8, 0, 1, 7, 0, 7},
		{"break larger than elapsed", 1, 2, 0, -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWorkHours(base, hoursAfter(tt.elapsed), tt.breakHours, tt.idle)

			assert.Equal(t, tt.elapsed, got.ElapsedHours)
			assert.Equal(t, tt.wantRaw, got.RawHours)
			assert.Equal(t, tt.wantPenalty, got.PenaltyHours)
			assert.Equal(t, tt.wantWork, got.WorkHours)
			assert.GreaterOrEqual(t, got.WorkHours, 0.0)
		})
	}
}

func TestComputeWorkHours_KeepsSubMinutePrecisionUntilRounding(t *testing.T) {
	// 7h 59m 59s elapsed rounds to 8.00 only at the end.
	out := base.Add(8*time.Hour - time.Second)
	got := ComputeWorkHours(base, out, 0, 0)

	assert.Equal(t, 8.0, got.ElapsedHours)
	assert.Equal(t, 8.0, got.WorkHours)
}

func TestComputeWorkHours_IdleCappedAtElapsed(t *testing.T) {
	got := ComputeWorkHours(base, hoursAfter(0.5), 0, 2)

	assert.Equal(t, 0.5, got.IdleHours)
	assert.Equal(t, 0.0, got.WorkHours)
}

func TestComputeWorkHours_PunchOutBeforePunchIn(t *testing.T) {
	got := ComputeWorkHours(hoursAfter(1), base, 0, 0)

	assert.Equal(t, 0.0, got.ElapsedHours)
	assert.Equal(t, 0.0, got.WorkHours)
}

func TestPolicy_IdleHours(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 0.0, p.IdleHours(0))
	assert.Equal(t, 0.05, p.IdleHours(1))
	assert.Equal(t, 0.2, p.IdleHours(4))
	assert.Equal(t, 1.0, p.IdleHours(20))
	assert.Equal(t, 0.0, p.IdleHours(-3))
}

func TestPolicy_NeedsUpdate(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.NeedsUpdate(0.2, 7.5, 0.2, 7.5))
	assert.False(t, p.NeedsUpdate(0.2, 7.5, 0.205, 7.495))
	assert.True(t, p.NeedsUpdate(0.2, 7.5, 0.25, 7.5))
	assert.True(t, p.NeedsUpdate(0.2, 7.5, 0.2, 7.0))
}

func TestPolicy_ClassifyDay(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, StatusHalfDay, p.ClassifyDay(3.99))
	assert.Equal(t, StatusPresent, p.ClassifyDay(4))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.33, Round2(1.0/3))
	assert.Equal(t, 0.67, Round2(2.0/3))
	assert.Equal(t, 7.5, Round2(7.5))
}
