package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/auth"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/ratelimit"
	"github.com/Tatu1984/hrms-sub001/internal/shared/authorization"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// =====================================================================
// Auth
// =====================================================================

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 60)
	token, _, err := jwtSvc.Generate(42, authorization.RoleAdmin)
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtSvc, logger.NewNop())

	var employeeID any
	var role string
	engine := gin.New()
	engine.GET("/test", m.RequireAuth(), func(c *gin.Context) {
		employeeID, _ = c.Get(constants.ContextKeyEmployeeID)
		role = c.GetString(constants.ContextKeyUserRole)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(engine, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), employeeID)
	assert.Equal(t, "admin", role)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 60)
	other := auth.NewJWTService("another-secret", 60)
	foreign, _, err := other.Generate(42, authorization.RoleEmployee)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage", "Bearer not.a.jwt"},
		{"wrong signature", "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			engine := gin.New()
			engine.GET("/test", NewAuthMiddleware(jwtSvc, logger.NewNop()).RequireAuth(), func(c *gin.Context) {
				reached = true
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(engine, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, reached)
		})
	}
}

// =====================================================================
// Request ID
// =====================================================================

func TestRequestID(t *testing.T) {
	var seen string
	engine := gin.New()
	engine.GET("/test", RequestID(), func(c *gin.Context) {
		seen = c.GetString(constants.ContextKeyRequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w := serve(engine, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(constants.HeaderXRequestID))
}

// =====================================================================
// Rate limit
// =====================================================================

type fakeLimiter struct {
	keys    []string
	allowed bool
	err     error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, config ratelimit.RateLimitConfig) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func (f *fakeLimiter) Reset(ctx context.Context, key string) error { return nil }

func TestRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		allowed    bool
		err        error
		employee   bool
		wantStatus int
		wantKey    string
	}{
		{"allowed employee", true, nil, true, http.StatusOK, "heartbeat:employee:42"},
		{"throttled employee", false, nil, true, http.StatusTooManyRequests, "heartbeat:employee:42"},
		{"anonymous keyed by ip", true, nil, false, http.StatusOK, "heartbeat:ip:192.0.2.1"},
		{"limiter down fails open", false, errors.New("redis down"), true, http.StatusOK, "heartbeat:employee:42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := &fakeLimiter{allowed: tt.allowed, err: tt.err}
			rl := NewRateLimiter(limiter, "heartbeat", ratelimit.RateLimitConfig{RequestsPerMinute: 2}, logger.NewNop())

			engine := gin.New()
			engine.GET("/test", func(c *gin.Context) {
				if tt.employee {
					c.Set(constants.ContextKeyEmployeeID, uint(42))
				}
			}, rl.Limit(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = "192.0.2.1:5555"
			w := serve(engine, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			require.Len(t, limiter.keys, 1)
			assert.Equal(t, tt.wantKey, limiter.keys[0])
		})
	}
}

// =====================================================================
// Recovery, CORS
// =====================================================================

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNop()))
	engine.GET("/test", func(c *gin.Context) {
		panic("boom")
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrMsgInternalServerError)
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://hr.example.com"}))
	engine.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.OPTIONS("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://hr.example.com")
	w := serve(engine, req)
	assert.Equal(t, "https://hr.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), constants.HeaderClientVersion)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(engine, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "https://hr.example.com")
	w = serve(engine, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// =====================================================================
// Client version
// =====================================================================

func TestMinClientVersion(t *testing.T) {
	tests := []struct {
		name       string
		minimum    string
		header     string
		wantStatus int
	}{
		{"gate disabled", "", "0.1.0", http.StatusOK},
		{"browser without header", "1.2.0", "", http.StatusOK},
		{"current client", "1.2.0", "1.2.0", http.StatusOK},
		{"newer client", "1.2.0", "v2.0.0", http.StatusOK},
		{"outdated client", "1.2.0", "1.1.9", http.StatusUpgradeRequired},
		{"unparseable client", "1.2.0", "beta", http.StatusUpgradeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.POST("/test", MinClientVersion(tt.minimum, logger.NewNop()), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderClientVersion, tt.header)
			}
			w := serve(engine, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
