package heartbeat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Send(t *testing.T) {
	var got Report
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, HeartbeatPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, Version, r.Header.Get("X-Client-Version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"success":true,"idleTime":0.2,` +
			`"lastHeartbeat":"2025-03-10T09:00:00Z","botDetected":true,"effectiveActive":false}}`))
	}))
	defer srv.Close()

	transport := NewHTTPTransport(srv.URL+"/", "tok-123", WithTimeout(5*time.Second))
	result, err := transport.Send(context.Background(), Report{
		Active:         true,
		Suspicious:     true,
		PatternType:    "no-variance",
		PatternDetails: "dx=3 dy=0",
	})
	require.NoError(t, err)

	assert.Equal(t, Report{Active: true, Suspicious: true, PatternType: "no-variance", PatternDetails: "dx=3 dy=0"}, got)
	assert.True(t, result.Success)
	assert.Equal(t, 0.2, result.IdleTime)
	assert.True(t, result.BotDetected)
	assert.False(t, result.EffectiveActive)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), result.LastHeartbeat)
}

func TestHTTPTransport_OmitsEmptyPattern(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"success":true,"data":{"success":true}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(srv.URL, "t").Send(context.Background(), Report{Active: false})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"active": false, "suspicious": false}, raw)
}

func TestHTTPTransport_Errors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		precondition bool
		message      string
	}{
		{"no session", http.StatusNotFound, `{"success":false,"error":{"type":"not_found","message":"punch in first"}}`, true, "punch in first"},
		{"punched out", http.StatusConflict, `{"success":false,"error":{"type":"conflict","message":"already punched out"}}`, true, "already punched out"},
		{"outdated client", http.StatusUpgradeRequired, `{"success":false,"error":{"type":"error","message":"upgrade"}}`, true, "upgrade"},
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"error":{"type":"unauthorized","message":"unauthorized"}}`, false, "unauthorized"},
		{"server error without envelope", http.StatusBadGateway, `<html>bad gateway</html>`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPTransport(srv.URL, "t").Send(context.Background(), Report{Active: true})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.precondition, IsPrecondition(err))
		})
	}
}

func TestHTTPTransport_MalformedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(srv.URL, "t").Send(context.Background(), Report{})
	require.Error(t, err)
	assert.False(t, IsPrecondition(err))
}

func TestIsPrecondition(t *testing.T) {
	assert.False(t, IsPrecondition(nil))
	assert.False(t, IsPrecondition(errors.New("dial tcp: refused")))
	assert.True(t, IsPrecondition(&APIError{StatusCode: http.StatusConflict}))
}
