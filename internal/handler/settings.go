package handler

import (
	"net/http"

	"github.com/mulescheduler/shift-grid/internal/domain"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.upstreamFor(r).GetSettings(r.Context())
	if err != nil {
		h.upstreamError(w, r, err, "获取设置失败")
		return
	}

	h.successResponse(w, r, "获取设置成功", settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MaxWorkersPerShift     int32  `json:"max_workers_per_shift" validate:"required,gte=1"`
		MaxHoursPerUserPerWeek *int32 `json:"max_hours_per_user_per_week" validate:"omitempty,gte=1,lte=168"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	settings, err := h.upstreamFor(r).UpdateSettings(r.Context(), domain.GlobalSettings{
		MaxWorkersPerShift:     req.MaxWorkersPerShift,
		MaxHoursPerUserPerWeek: req.MaxHoursPerUserPerWeek,
	})
	if err != nil {
		h.upstreamError(w, r, err, "更新设置失败")
		return
	}

	h.successResponse(w, r, "更新设置成功", settings)
}
