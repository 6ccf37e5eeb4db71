package handler

import (
	"net/http"

	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/utils"
)

// GetShiftRequirements week_start 为空时返回所有周的需求
func (h *Handler) GetShiftRequirements(w http.ResponseWriter, r *http.Request) {
	weekStart := r.URL.Query().Get("week_start")
	if weekStart != "" {
		if err := utils.ValidateWeekStart(weekStart); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	requirements, err := h.upstreamFor(r).ListShiftRequirements(r.Context(), weekStart)
	if err != nil {
		h.upstreamError(w, r, err, "获取班次需求失败")
		return
	}

	h.successResponse(w, r, "获取班次需求成功", requirements)
}

func (h *Handler) CreateShiftRequirement(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateShiftRequirementRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateWeekStart(req.WeekStartDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	requirement, err := h.upstreamFor(r).CreateShiftRequirement(r.Context(), req)
	if err != nil {
		h.upstreamError(w, r, err, "创建班次需求失败")
		return
	}

	h.refreshView(r)
	h.successResponse(w, r, "保存班次需求成功", requirement)
}

func (h *Handler) UpdateShiftRequirement(w http.ResponseWriter, r *http.Request) {
	var req domain.ShiftRequirementUpdate

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.WeekStartDate != nil {
		if err := utils.ValidateWeekStart(*req.WeekStartDate); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	id := r.Context().Value(RequirementCtx).(int64)
	requirement, err := h.upstreamFor(r).UpdateShiftRequirement(r.Context(), id, req)
	if err != nil {
		h.upstreamError(w, r, err, "更新班次需求失败")
		return
	}

	h.refreshView(r)
	h.successResponse(w, r, "更新班次需求成功", requirement)
}

func (h *Handler) DeleteShiftRequirement(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(RequirementCtx).(int64)
	if err := h.upstreamFor(r).DeleteShiftRequirement(r.Context(), id); err != nil {
		h.upstreamError(w, r, err, "删除班次需求失败")
		return
	}

	h.refreshView(r)
	h.successResponse(w, r, "删除班次需求成功", nil)
}
