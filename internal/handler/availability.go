package handler

import (
	"net/http"
	"time"

	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/utils"
)

func (h *Handler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	weekStart := r.URL.Query().Get("week_start")
	if weekStart == "" {
		weekStart = utils.WeekStartOf(time.Now())
	}
	if err := utils.ValidateWeekStart(weekStart); err != nil {
		h.badRequest(w, r, err)
		return
	}

	availability, err := h.upstreamFor(r).ListAvailability(r.Context(), weekStart)
	if err != nil {
		h.upstreamError(w, r, err, "获取空闲时间失败")
		return
	}

	h.successResponse(w, r, "获取空闲时间成功", availability)
}

// SubmitMyAvailability 未出现在提交中的 (地点, 时间段) 视为不可用
func (h *Handler) SubmitMyAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStartDate string `json:"week_start_date" validate:"required"`
		Entries       []struct {
			LocationID      int64 `json:"location_id" validate:"required,gt=0"`
			TimeSlotID      int64 `json:"time_slot_id" validate:"required,gt=0"`
			PreferenceLevel int32 `json:"preference_level" validate:"required,oneof=1 2"`
		} `json:"entries" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	batch := domain.AvailabilityBatch{
		WeekStartDate: req.WeekStartDate,
		Entries:       make([]domain.AvailabilityEntry, 0, len(req.Entries)),
	}
	for _, entry := range req.Entries {
		batch.Entries = append(batch.Entries, domain.AvailabilityEntry{
			LocationID:      entry.LocationID,
			TimeSlotID:      entry.TimeSlotID,
			PreferenceLevel: domain.PreferenceLevel(entry.PreferenceLevel),
		})
	}
	if err := utils.ValidateAvailabilityBatch(&batch); err != nil {
		h.badRequest(w, r, err)
		return
	}

	saved, err := h.upstreamFor(r).SubmitAvailability(r.Context(), batch)
	if err != nil {
		h.upstreamError(w, r, err, "提交空闲时间失败")
		return
	}

	h.successResponse(w, r, "提交空闲时间成功", saved)
}
