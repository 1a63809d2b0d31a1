package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveActive(t *testing.T) {
	tests := []struct {
		active, suspicious, want bool
	}{
		{true, false, true},
		{true, true, false},
		{false, false, false},
		{false, true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EffectiveActive(tt.active, tt.suspicious))
	}
}

func TestNewHeartbeatEntry_SuspicionOverridesActive(t *testing.T) {
	e, err := NewHeartbeatEntry(1, base, true, true, "periodic-interval", "cv=0.01", nil)
	require.NoError(t, err)

	assert.False(t, e.Active())
	assert.True(t, e.Suspicious())
	assert.Equal(t, SourceClient, e.Source())
	assert.True(t, e.CountsAsIdle())
	assert.NotNil(t, e.Metadata())
}

func TestNewServerMarker_NeverCountsAsIdle(t *testing.T) {
	e, err := NewServerMarker(1, base, MarkerPunchIn)
	require.NoError(t, err)

	assert.True(t, e.Active())
	assert.Equal(t, SourceServer, e.Source())
	assert.False(t, e.CountsAsIdle())
	assert.Equal(t, MarkerPunchIn, e.Metadata()["marker"])
}

func TestNewHeartbeatEntry_RequiresSession(t *testing.T) {
	_, err := NewHeartbeatEntry(0, base, true, false, "", "", nil)
	assert.ErrorIs(t, err, ErrInvalidActivityEntry)
}

func TestPolicy_Summarize(t *testing.T) {
	p := DefaultPolicy()
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	marker, err := NewServerMarker(1, at(0), MarkerPunchIn)
	require.NoError(t, err)
	entries := []*ActivityEntry{marker}

	// active, idle, idle, bot, active, idle, unknown-bot, active, idle, active
	pattern := []struct {
		active     bool
		suspicious bool
		tag        string
	}{
		{true, false, ""}, {false, false, ""}, {false, false, ""},
		{true, true, "periodic-interval"}, {true, false, ""}, {false, false, ""},
		{true, true, ""}, {true, false, ""}, {false, false, ""}, {true, false, ""},
	}
	// Insert out of order to exercise sorting.
	for i := len(pattern) - 1; i >= 0; i-- {
		hp := pattern[i]
		e, err := NewHeartbeatEntry(1, at(3*(i+1)), hp.active, hp.suspicious, hp.tag, "", nil)
		require.NoError(t, err)
		entries = append(entries, e)
	}

	s := p.Summarize(entries)

	assert.Equal(t, 11, s.TotalEntries)
	assert.Equal(t, 10, s.ClientHeartbeats)
	assert.Equal(t, 6, s.IdleHeartbeats)
	assert.Equal(t, 4, s.ActiveHeartbeats)
	assert.Equal(t, 2, s.SuspiciousEntries)
	assert.Equal(t, 0.3, s.IdleHours)
	assert.Equal(t, 9*time.Minute, s.LongestIdleStreak)
	assert.Equal(t, map[string]int{"periodic-interval": 1, "unknown": 1}, s.Patterns)
	require.NotNil(t, s.FirstHeartbeatAt)
	assert.Equal(t, at(3), *s.FirstHeartbeatAt)
	assert.Equal(t, at(30), *s.LastHeartbeatAt)
}
