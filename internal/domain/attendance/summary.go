package attendance

import (
	"sort"
	"time"
)

// ActivitySummary condenses a session's activity log for review.
type ActivitySummary struct {
	TotalEntries      int
	ClientHeartbeats  int
	ActiveHeartbeats  int
	IdleHeartbeats    int
	SuspiciousEntries int
	FirstHeartbeatAt  *time.Time
	LastHeartbeatAt   *time.Time
	// LongestIdleStreak is the longest run of consecutive idle client heartbeats,
	// converted to time with the heartbeat interval.
	LongestIdleStreak time.Duration
	IdleHours         float64
	Patterns          map[string]int
}

// Summarize walks entries in timestamp order. Only client heartbeats feed the
// counters; server markers are counted in TotalEntries and otherwise ignored.
func (p Policy) Summarize(entries []*ActivityEntry) ActivitySummary {
	sorted := make([]*ActivityEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt().Before(sorted[j].RecordedAt())
	})

	summary := ActivitySummary{
		TotalEntries: len(sorted),
		Patterns:     make(map[string]int),
	}

	var streak, longest int
	for _, e := range sorted {
		if e.Source() != SourceClient {
			continue
		}

		at := e.RecordedAt()
		if summary.FirstHeartbeatAt == nil {
			summary.FirstHeartbeatAt = &at
		}
		summary.LastHeartbeatAt = &at
		summary.ClientHeartbeats++

		if e.Suspicious() {
			summary.SuspiciousEntries++
			pattern := e.PatternType()
			if pattern == "" {
				pattern = "unknown"
			}
			summary.Patterns[pattern]++
		}

		if e.CountsAsIdle() {
			summary.IdleHeartbeats++
			streak++
			if streak > longest {
				longest = streak
			}
		} else {
			summary.ActiveHeartbeats++
			streak = 0
		}
	}

	summary.LongestIdleStreak = time.Duration(longest) * p.HeartbeatInterval
	summary.IdleHours = p.IdleHours(int64(summary.IdleHeartbeats))
	return summary
}
