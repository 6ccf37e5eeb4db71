package handler

import (
	"log/slog"
	"net/http"

	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/utils"
)

func (h *Handler) GetAllLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.upstreamFor(r).ListLocations(r.Context())
	if err != nil {
		h.upstreamError(w, r, err, "获取地点失败")
		return
	}

	h.successResponse(w, r, "获取所有地点成功", locations)
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name" validate:"required,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	location, err := h.upstreamFor(r).CreateLocation(r.Context(), req.Name, req.Description)
	if err != nil {
		h.upstreamError(w, r, err, "创建地点失败")
		return
	}

	h.successResponse(w, r, "创建地点成功", location)
}

func (h *Handler) GetAllTimeSlots(w http.ResponseWriter, r *http.Request) {
	timeSlots, err := h.upstreamFor(r).ListTimeSlots(r.Context())
	if err != nil {
		h.upstreamError(w, r, err, "获取时间段失败")
		return
	}

	h.successResponse(w, r, "获取所有时间段成功", timeSlots)
}

func (h *Handler) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayOfWeek int32  `json:"day_of_week" validate:"gte=0,lte=6"`
		StartTime string `json:"start_time" validate:"required"`
		EndTime   string `json:"end_time" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slot := domain.TimeSlot{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := utils.ValidateTimeSlot(&slot); err != nil {
		h.badRequest(w, r, err)
		return
	}

	created, err := h.upstreamFor(r).CreateTimeSlot(r.Context(), slot)
	if err != nil {
		h.upstreamError(w, r, err, "创建时间段失败")
		return
	}

	h.successResponse(w, r, "创建时间段成功", created)
}

// refreshView 地点、时间段和班次需求变化后，当前会话已加载的周视图随之刷新
func (h *Handler) refreshView(r *http.Request) {
	store := h.storeFor(r)
	if store.Params().WeekStart == "" {
		return
	}
	if err := store.Refresh(r.Context()); err != nil {
		slog.Warn("刷新排班视图失败", "error", err)
	}
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req domain.LocationUpdate

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	id := r.Context().Value(LocationIDCtx).(int64)
	location, err := h.upstreamFor(r).UpdateLocation(r.Context(), id, req)
	if err != nil {
		h.upstreamError(w, r, err, "更新地点失败")
		return
	}

	h.refreshView(r)
	h.successResponse(w, r, "更新地点成功", location)
}

func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(LocationIDCtx).(int64)
	if err := h.upstreamFor(r).DeleteLocation(r.Context(), id); err != nil {
		h.upstreamError(w, r, err, "删除地点失败")
		return
	}

	h.refreshView(r)
	h.successResponse(w, r, "删除地点成功", nil)
}

// UpdateTimeSlot 与现有时间段合并后整体校验，为 nil 的字段保持不变
func (h *Handler) UpdateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayOfWeek *int32  `json:"day_of_week" validate:"omitempty,gte=0,lte=6"`
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	id := r.Context().Value(TimeSlotIDCtx).(int64)
	upstream := h.upstreamFor(r)

	timeSlots, err := upstream.ListTimeSlots(r.Context())
	if err != nil {
		h.upstreamError(w, r, err, "获取时间段失败")
		return
	}

	var slot *domain.TimeSlot
	for i := range timeSlots {
		if timeSlots[i].ID == id {
			slot = &timeSlots[i]
			break
		}
	}
	if slot == nil {
		h.errorResponse(w, r, "时间段不存在")
		return
	}

	if req.DayOfWeek != nil {
		slot.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if err := utils.ValidateTimeSlot(slot); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := upstream.UpdateTimeSlot(r.Context(), *slot)
	if err != nil {
		h.upstreamError(w, r, err, "更新时间段失败")
		return
	}

	h.refreshView(r)
	h.successResponse(w, r, "更新时间段成功", updated)
}

func (h *Handler) DeleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(TimeSlotIDCtx).(int64)
	if err := h.upstreamFor(r).DeleteTimeSlot(r.Context(), id); err != nil {
		h.upstreamError(w, r, err, "删除时间段失败")
		return
	}

	h.refreshView(r)
	h.successResponse(w, r, "删除时间段成功", nil)
}
