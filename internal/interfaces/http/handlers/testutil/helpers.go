// Package testutil builds gin contexts and decodes response envelopes for
// handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/shared/authorization"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext creates a test gin.Context with the given method, path, and optional body.
// A string body is sent verbatim.
func NewTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	default:
		jsonBytes, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBytes))
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	return c, w
}

// SetAuthContext sets the employee and role the auth middleware would set.
func SetAuthContext(c *gin.Context, employeeID uint, role authorization.UserRole) {
	c.Set(constants.ContextKeyEmployeeID, employeeID)
	c.Set(constants.ContextKeyUserRole, string(role))
}

// SetURLParam sets a URL parameter on the gin context.
func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// ParseResponse parses the JSON response body into the target struct.
func ParseResponse(w *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

// APIResponse mirrors utils.APIResponse for test assertions.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ErrorInfo mirrors utils.ErrorInfo for test assertions.
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewMockLogger returns a no-op logger.Interface for tests.
func NewMockLogger() logger.Interface {
	return logger.NewNop()
}
