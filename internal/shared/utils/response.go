package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
)

// APIResponse is the envelope every attendance endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data, Message: message})
}

func CreatedResponse(c *gin.Context, data interface{}, message string) {
	SuccessResponse(c, http.StatusCreated, message, data)
}

// ErrorResponse writes an error envelope whose type is derived from the status.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Error: &ErrorInfo{Type: string(typeForStatus(statusCode)), Message: message},
	})
}

// ErrorResponseWithError renders an AppError as-is. Anything else is an
// unexpected failure and is reported as a bare internal error.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		appErr = errors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	c.JSON(appErr.Code, APIResponse{
		Error: &ErrorInfo{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// AbortWithError renders err and stops the middleware chain.
func AbortWithError(c *gin.Context, err error) {
	ErrorResponseWithError(c, err)
	c.Abort()
}

func typeForStatus(status int) errors.ErrorType {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrorTypeValidation
	case http.StatusUnauthorized:
		return errors.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return errors.ErrorTypeForbidden
	case http.StatusNotFound:
		return errors.ErrorTypeNotFound
	case http.StatusConflict:
		return errors.ErrorTypeConflict
	case http.StatusUpgradeRequired:
		return errors.ErrorTypeUpgradeRequired
	case http.StatusTooManyRequests:
		return errors.ErrorTypeRateLimited
	default:
		return errors.ErrorTypeInternal
	}
}
