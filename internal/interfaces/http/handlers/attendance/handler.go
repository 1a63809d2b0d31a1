// Package attendance exposes punch, heartbeat and attendance read endpoints
// for the authenticated employee.
package attendance

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/dto"
	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/usecases"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/handlers/common"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
	"github.com/Tatu1984/hrms-sub001/internal/shared/utils"
)

type Handler struct {
	punchInUC   usecases.PunchInExecutor
	punchOutUC  usecases.PunchOutExecutor
	heartbeatUC usecases.RecordHeartbeatExecutor
	todayUC     usecases.GetTodayAttendanceExecutor
	activityUC  usecases.GetActivitySummaryExecutor
	logger      logger.Interface
}

func NewHandler(
	punchInUC usecases.PunchInExecutor,
	punchOutUC usecases.PunchOutExecutor,
	heartbeatUC usecases.RecordHeartbeatExecutor,
	todayUC usecases.GetTodayAttendanceExecutor,
	activityUC usecases.GetActivitySummaryExecutor,
	log logger.Interface,
) *Handler {
	return &Handler{
		punchInUC:   punchInUC,
		punchOutUC:  punchOutUC,
		heartbeatUC: heartbeatUC,
		todayUC:     todayUC,
		activityUC:  activityUC,
		logger:      log,
	}
}

// HeartbeatRequest is the body posted by the client emitter. Every field is
// optional; an empty body records an active, non-suspicious heartbeat.
type HeartbeatRequest struct {
	Active         *bool  `json:"active"`
	Suspicious     *bool  `json:"suspicious"`
	PatternType    string `json:"patternType"`
	PatternDetails string `json:"patternDetails"`
}

// PunchIn handles POST /attendance/punch-in
func (h *Handler) PunchIn(c *gin.Context) {
	identity, ok := common.Identity(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		return
	}

	result, err := h.punchInUC.Execute(c.Request.Context(), usecases.PunchInCommand{Identity: identity})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Punched in")
}

// PunchOut handles POST /attendance/punch-out
func (h *Handler) PunchOut(c *gin.Context) {
	identity, ok := common.Identity(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		return
	}

	result, err := h.punchOutUC.Execute(c.Request.Context(), usecases.PunchOutCommand{Identity: identity})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Punched out", result)
}

// Heartbeat handles POST /attendance/heartbeat
func (h *Handler) Heartbeat(c *gin.Context) {
	identity, ok := common.Identity(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		return
	}

	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warnw("invalid heartbeat body",
			"employee_id", identity.EmployeeID,
			"error", err,
		)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid heartbeat body", err.Error()))
		return
	}

	result, err := h.heartbeatUC.Execute(c.Request.Context(), usecases.RecordHeartbeatCommand{
		Identity:       identity,
		Active:         req.Active,
		Suspicious:     req.Suspicious,
		PatternType:    req.PatternType,
		PatternDetails: req.PatternDetails,
		ClientIP:       c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
		RequestID:      c.GetString(constants.ContextKeyRequestID),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", &dto.HeartbeatResponseDTO{
		Success:         true,
		IdleTime:        result.IdleTimeHours,
		LastHeartbeat:   result.LastHeartbeat,
		BotDetected:     result.BotDetected,
		EffectiveActive: result.EffectiveActive,
	})
}

// Today handles GET /attendance/today
func (h *Handler) Today(c *gin.Context) {
	identity, ok := common.Identity(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		return
	}

	result, err := h.todayUC.Execute(c.Request.Context(), usecases.GetTodayAttendanceQuery{Identity: identity})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SessionActivity handles GET /attendance/sessions/:id/activity
func (h *Handler) SessionActivity(c *gin.Context) {
	identity, ok := common.Identity(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		return
	}

	sessionID, err := utils.ParseUintParam(c, "id", "session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.activityUC.Execute(c.Request.Context(), usecases.GetActivitySummaryQuery{
		Identity:  identity,
		SessionID: sessionID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
