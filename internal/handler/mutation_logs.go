package handler

import (
	"net/http"
	"time"

	"github.com/mulescheduler/shift-grid/internal/utils"
)

func (h *Handler) GetMutationLogs(w http.ResponseWriter, r *http.Request) {
	weekStart := r.URL.Query().Get("week_start")
	if weekStart == "" {
		weekStart = utils.WeekStartOf(time.Now())
	}
	if err := utils.ValidateWeekStart(weekStart); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if h.auditLog == nil {
		h.errorResponse(w, r, "未启用变更记录")
		return
	}

	logs, err := h.auditLog.GetMutationLogsByWeek(weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取变更记录成功", logs)
}
