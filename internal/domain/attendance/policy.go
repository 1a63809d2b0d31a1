package attendance

import "time"

const (
	DefaultHeartbeatInterval     = 3 * time.Minute
	DefaultIdleGraceHours        = 1.0
	DefaultUpdateToleranceHours  = 0.01
	DefaultHalfDayThresholdHours = 4.0
)

// Policy carries the accounting constants shared by live ingestion and the
// recalculator. Both paths must use the same Policy or their results diverge.
type Policy struct {
	// HeartbeatInterval is the idle time one inactive heartbeat stands for.
	HeartbeatInterval time.Duration
	// IdleGraceHours is the idle time tolerated before the penalty applies.
	IdleGraceHours float64
	// UpdateToleranceHours is the smallest change worth writing back.
	UpdateToleranceHours float64
	// HalfDayThresholdHours classifies a closed session as HALF_DAY below it.
	HalfDayThresholdHours float64
}

func DefaultPolicy() Policy {
	return Policy{
		HeartbeatInterval:     DefaultHeartbeatInterval,
		IdleGraceHours:        DefaultIdleGraceHours,
		UpdateToleranceHours:  DefaultUpdateToleranceHours,
		HalfDayThresholdHours: DefaultHalfDayThresholdHours,
	}
}

// Normalize fills zero fields with defaults.
func (p Policy) Normalize() Policy {
	d := DefaultPolicy()
	if p.HeartbeatInterval <= 0 {
		p.HeartbeatInterval = d.HeartbeatInterval
	}
	if p.IdleGraceHours < 0 {
		p.IdleGraceHours = d.IdleGraceHours
	}
	if p.UpdateToleranceHours <= 0 {
		p.UpdateToleranceHours = d.UpdateToleranceHours
	}
	if p.HalfDayThresholdHours <= 0 {
		p.HalfDayThresholdHours = d.HalfDayThresholdHours
	}
	return p
}

// ClassifyDay maps final work hours to a status.
func (p Policy) ClassifyDay(workHours float64) Status {
	if workHours < p.HalfDayThresholdHours {
		return StatusHalfDay
	}
	return StatusPresent
}
