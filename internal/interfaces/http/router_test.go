package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/migration"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/repository"
	"github.com/Tatu1984/hrms-sub001/internal/shared/authorization"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	sharedConfig "github.com/Tatu1984/hrms-sub001/internal/shared/config"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

const (
	testEmployeeID uint = 42
	testAdminID    uint = 1
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	router *Router
	db     *gorm.DB
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migration.NewGooseStrategy("sqlite", logger.NewNop()).Migrate(gdb))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Server: sharedConfig.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth:   sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{Secret: "router-test-secret", AccessExpMinutes: 60}},
		Attendance: sharedConfig.AttendanceConfig{
			HeartbeatIntervalMinutes: 3,
			IdleGraceHours:           1,
			UpdateToleranceHours:     0.01,
			HalfDayThresholdHours:    4,
			AlertCooldownMinutes:     30,
			HeartbeatRateLimit:       60,
			MinClientVersion:         "1.0.0",
		},
	}

	router, err := NewRouter(gdb, client, cfg, logger.NewNop())
	require.NoError(t, err)
	router.SetupRoutes()

	t.Cleanup(func() {
		router.Shutdown()
		_ = sqlDB.Close()
	})

	return &testServer{router: router, db: gdb, mr: mr}
}

func (s *testServer) token(t *testing.T, employeeID uint, role authorization.UserRole) string {
	t.Helper()
	token, _, err := s.router.jwtSvc.Generate(employeeID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.GetEngine().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// seedOpenSession punches the employee in two hours ago so idle time is not
// clamped by a short elapsed window.
func (s *testServer) seedOpenSession(t *testing.T, employeeID uint) *attendance.Session {
	t.Helper()
	now := biztime.NowUTC()
	session, err := attendance.NewSession(employeeID, biztime.StartOfDayUTC(now))
	require.NoError(t, err)
	require.NoError(t, session.PunchIn(now.Add(-2*time.Hour)))
	require.NoError(t, repository.NewAttendanceSessionRepository(s.db).Create(context.Background(), session))
	return session
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	w, _ := srv.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(t, http.MethodPost, "/api/v1/attendance/heartbeat", "", map[string]any{"active": true})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestRouter_HeartbeatBeforePunchIn(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, testEmployeeID, authorization.RoleEmployee)

	w, env := srv.do(t, http.MethodPost, "/api/v1/attendance/heartbeat", token, map[string]any{"active": true})

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "punch in first", env.Error.Message)
}

func TestRouter_AttendanceDay(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, testEmployeeID, authorization.RoleEmployee)
	session := srv.seedOpenSession(t, testEmployeeID)

	activity := []bool{true, false, true, true, false, true, false, true, false, true}
	var last map[string]any
	for _, active := range activity {
		w, env := srv.do(t, http.MethodPost, "/api/v1/attendance/heartbeat", token, map[string]any{"active": active})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, &last))
		assert.Equal(t, true, last["success"])
		assert.Equal(t, active, last["effectiveActive"])
	}
	assert.Equal(t, 0.2, last["idleTime"])

	w, env := srv.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var today struct {
		PunchedIn bool `json:"punched_in"`
		Session   struct {
			ID        uint    `json:"id"`
			IdleHours float64 `json:"idle_hours"`
		} `json:"session"`
		Activity struct {
			ClientHeartbeats int `json:"client_heartbeats"`
			IdleHeartbeats   int `json:"idle_heartbeats"`
		} `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &today))
	assert.True(t, today.PunchedIn)
	assert.Equal(t, session.ID(), today.Session.ID)
	assert.Equal(t, 0.2, today.Session.IdleHours)
	assert.Equal(t, 10, today.Activity.ClientHeartbeats)
	assert.Equal(t, 4, today.Activity.IdleHeartbeats)

	w, env = srv.do(t, http.MethodPost, "/api/v1/attendance/punch-out", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Session struct {
			Status    string  `json:"status"`
			WorkHours float64 `json:"work_hours"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.InDelta(t, 1.8, out.Session.WorkHours, 0.02)
	assert.Equal(t, "HALF_DAY", out.Session.Status)

	w, env = srv.do(t, http.MethodPost, "/api/v1/attendance/heartbeat", token, map[string]any{"active": true})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "already punched out", env.Error.Message)

	adminToken := srv.token(t, testAdminID, authorization.RoleAdmin)
	path := fmt.Sprintf("/api/v1/admin/attendance/sessions/%d/recompute", session.ID())
	w, env = srv.do(t, http.MethodPost, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var recompute struct {
		Updated       bool    `json:"updated"`
		IdleTimeHours float64 `json:"idle_time_hours"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &recompute))
	assert.False(t, recompute.Updated)
	assert.Equal(t, 0.2, recompute.IdleTimeHours)
}

func TestRouter_SuspiciousHeartbeatRaisesAlert(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, testEmployeeID, authorization.RoleEmployee)
	srv.seedOpenSession(t, testEmployeeID)

	w, env := srv.do(t, http.MethodPost, "/api/v1/attendance/heartbeat", token, map[string]any{
		"active":         true,
		"suspicious":     true,
		"patternType":    "periodic-interval",
		"patternDetails": "<b>cv=0.01</b>",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, true, data["botDetected"])
	assert.Equal(t, false, data["effectiveActive"])
	assert.Equal(t, 0.05, data["idleTime"])

	key := "hrms:alert:suspicious:42:periodic-interval"
	assert.Eventually(t, func() bool {
		return srv.mr.Exists(key)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRouter_AdminRoutesRequireAdmin(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, testEmployeeID, authorization.RoleEmployee)

	w, _ := srv.do(t, http.MethodPost, "/api/v1/admin/attendance/recompute", token, map[string]any{"from": "2025-03-01"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := srv.token(t, testAdminID, authorization.RoleAdmin)
	w, env := srv.do(t, http.MethodPost, "/api/v1/admin/attendance/recompute", adminToken, map[string]any{
		"from": "2025-03-01",
		"to":   "2025-03-07",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 0.0, stats["scanned"])
}

func TestRouter_HeartbeatRejectsOutdatedClient(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, testEmployeeID, authorization.RoleEmployee)
	session := srv.seedOpenSession(t, testEmployeeID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/heartbeat", bytes.NewReader([]byte(`{"active":false}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Client-Version", "0.9.0")
	w := httptest.NewRecorder()
	srv.router.GetEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUpgradeRequired, w.Code)

	entries, err := repository.NewActivityLogRepository(srv.db).ListBySession(context.Background(), session.ID())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
