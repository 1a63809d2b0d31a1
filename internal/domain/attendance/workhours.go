package attendance

import (
	"math"
	"time"
)

// Round2 rounds to two decimal places, the precision every stored hour value uses.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// floor2 truncates to two decimals; used when clamping so the rounded value
// never exceeds its bound.
func floor2(x float64) float64 {
	return math.Floor(x*100) / 100
}

// IdleHours converts a count of inactive heartbeats into idle hours.
func (p Policy) IdleHours(inactiveCount int64) float64 {
	if inactiveCount <= 0 {
		return 0
	}
	return Round2(float64(inactiveCount) * p.HeartbeatInterval.Minutes() / 60)
}

// WorkHoursBreakdown is every intermediate of a work-hours computation,
// rounded to two decimals.
type WorkHoursBreakdown struct {
	ElapsedHours float64
	BreakHours   float64
	IdleHours    float64
	RawHours     float64
	PenaltyHours float64
	WorkHours    float64
}

// ComputeWorkHours derives payable hours with the default policy.
func ComputeWorkHours(punchIn, punchOut time.Time, breakHours, idleHours float64) WorkHoursBreakdown {
	return DefaultPolicy().ComputeWorkHours(punchIn, punchOut, breakHours, idleHours)
}

// ComputeWorkHours derives payable hours for a closed interval:
//
//	raw     = elapsed - break - idle
//	penalty = max(0, idle - grace)
//	work    = max(0, raw - penalty)
//
// Idle beyond the grace period is therefore deducted twice. Elapsed time keeps
// full precision until the final rounding. Idle is capped at the elapsed time.
func (p Policy) ComputeWorkHours(punchIn, punchOut time.Time, breakHours, idleHours float64) WorkHoursBreakdown {
	elapsed := punchOut.Sub(punchIn).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	if breakHours < 0 {
		breakHours = 0
	}
	idle := math.Max(0, idleHours)
	if idle > elapsed {
		idle = floor2(elapsed)
	}

	raw := elapsed - breakHours - idle
	penalty := math.Max(0, idle-p.IdleGraceHours)
	work := math.Max(0, raw-penalty)

	return WorkHoursBreakdown{
		ElapsedHours: Round2(elapsed),
		BreakHours:   Round2(breakHours),
		IdleHours:    Round2(idle),
		RawHours:     Round2(raw),
		PenaltyHours: Round2(penalty),
		WorkHours:    Round2(work),
	}
}

// NeedsUpdate reports whether recomputed values differ from the stored ones by
// more than the tolerance.
func (p Policy) NeedsUpdate(storedIdle, storedWork, idle, work float64) bool {
	return math.Abs(storedIdle-idle) > p.UpdateToleranceHours ||
		math.Abs(storedWork-work) > p.UpdateToleranceHours
}
