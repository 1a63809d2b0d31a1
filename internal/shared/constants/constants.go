// Package constants holds names shared across layers: environments, headers,
// gin context keys and table names.
package constants

// Deployment environments accepted by --env and ENV.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	// HeaderClientVersion is sent by the heartbeat emitter SDK.
	HeaderClientVersion = "X-Client-Version"

	ContentTypeJSON = "application/json"
)

// Gin context keys set by the auth and request-id middleware.
const (
	ContextKeyEmployeeID = "employee_id"
	ContextKeyUserRole   = "user_role"
	ContextKeyRequestID  = "request_id"
)

const (
	TableAttendanceSessions = "attendance_sessions"
	TableActivityLogs       = "attendance_activity_logs"
)

const (
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
)
