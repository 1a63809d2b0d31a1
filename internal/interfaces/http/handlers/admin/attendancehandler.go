// Package admin exposes administrator-only attendance maintenance endpoints.
package admin

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/usecases"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/http/handlers/common"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
	"github.com/Tatu1984/hrms-sub001/internal/shared/utils"
)

type AttendanceHandler struct {
	recomputeUC usecases.RecomputeWorkHoursExecutor
	backfillUC  usecases.BackfillWorkHoursExecutor
	logger      logger.Interface
	now         func() time.Time
}

func NewAttendanceHandler(
	recomputeUC usecases.RecomputeWorkHoursExecutor,
	backfillUC usecases.BackfillWorkHoursExecutor,
	log logger.Interface,
) *AttendanceHandler {
	return &AttendanceHandler{
		recomputeUC: recomputeUC,
		backfillUC:  backfillUC,
		logger:      log,
		now:         biztime.NowUTC,
	}
}

// BackfillRequest selects business days by date, both ends inclusive. An
// empty From leaves the window open below; To defaults to today.
type BackfillRequest struct {
	From        string `json:"from" validate:"omitempty,bizdate"`
	To          string `json:"to" validate:"omitempty,bizdate"`
	Concurrency int    `json:"concurrency" validate:"gte=0,lte=64"`
	BatchSize   int    `json:"batch_size" validate:"gte=0,lte=5000"`
	DryRun      bool   `json:"dry_run"`
}

type BackfillResponse struct {
	Scanned    int64   `json:"scanned"`
	Updated    int64   `json:"updated"`
	Skipped    int64   `json:"skipped"`
	Failed     int64   `json:"failed"`
	DryRun     bool    `json:"dry_run"`
	DurationMs float64 `json:"duration_ms"`
}

// RecomputeSession handles POST /admin/attendance/sessions/:id/recompute
func (h *AttendanceHandler) RecomputeSession(c *gin.Context) {
	sessionID, err := utils.ParseUintParam(c, "id", "session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	dryRun, _ := strconv.ParseBool(c.Query("dry_run"))

	result, err := h.recomputeUC.Execute(c.Request.Context(), usecases.RecomputeWorkHoursCommand{
		SessionID: sessionID,
		DryRun:    dryRun,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.audit(c, "admin recomputed attendance session",
		"session_id", sessionID,
		"dry_run", dryRun,
		"updated", result.Updated,
	)

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Backfill handles POST /admin/attendance/recompute
func (h *AttendanceHandler) Backfill(c *gin.Context) {
	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	from, to, err := h.window(req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.backfillUC.Execute(c.Request.Context(), usecases.BackfillWorkHoursCommand{
		From:        from,
		To:          to,
		Concurrency: req.Concurrency,
		BatchSize:   req.BatchSize,
		DryRun:      req.DryRun,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	firstDay := ""
	if !from.IsZero() {
		firstDay = biztime.FormatDate(from)
	}
	h.audit(c, "admin backfilled work hours",
		"from", firstDay,
		"to", biztime.FormatDate(to.Add(-time.Nanosecond)),
		"scanned", result.Scanned,
		"updated", result.Updated,
		"failed", result.Failed,
		"dry_run", result.DryRun,
	)

	utils.SuccessResponse(c, http.StatusOK, "", &BackfillResponse{
		Scanned:    result.Scanned,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		DryRun:     result.DryRun,
		DurationMs: float64(result.Duration) / float64(time.Millisecond),
	})
}

func (h *AttendanceHandler) window(req BackfillRequest) (time.Time, time.Time, error) {
	var from time.Time
	var err error
	if req.From != "" {
		from, err = biztime.ParseDateInBizTimezone(req.From)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("invalid from date", err.Error())
		}
	}

	lastDay := h.now()
	if req.To != "" {
		lastDay, err = biztime.ParseDateInBizTimezone(req.To)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("invalid to date", err.Error())
		}
	}

	return from, biztime.StartOfNextDayUTC(lastDay), nil
}

func (h *AttendanceHandler) audit(c *gin.Context, msg string, keysAndValues ...interface{}) {
	if identity, ok := common.Identity(c); ok {
		keysAndValues = append(keysAndValues, "admin_id", identity.EmployeeID)
	}
	h.logger.Infow(msg, keysAndValues...)
}
