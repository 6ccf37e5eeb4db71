package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/scheduledata"
	"github.com/mulescheduler/shift-grid/internal/utils"
)

type workerView struct {
	domain.User
	Initials string `json:"initials"`
}

type assignmentView struct {
	domain.Assignment
	WorkerName     string `json:"workerName"`
	WorkerInitials string `json:"workerInitials"`
	LocationTitle  string `json:"locationTitle"`
}

type cellView struct {
	DayOfWeek   int32            `json:"dayOfWeek"`
	DayName     string           `json:"dayName"`
	TimeSlotID  int64            `json:"timeSlotID"`
	LocationID  int64            `json:"locationID"`
	Assignments []assignmentView `json:"assignments"`
}

type scheduleView struct {
	Params           scheduledata.Params      `json:"params"`
	Loading          bool                     `json:"loading"`
	Error            string                   `json:"error"`
	Workers          []workerView             `json:"workers"`
	Locations        []domain.Location        `json:"locations"`
	TimeSlots        []domain.TimeSlot        `json:"timeSlots"`
	Cells            []cellView               `json:"cells"`
	UnassignedShifts []domain.UnassignedShift `json:"unassignedShifts"`
}

// decorate 用未过滤的 map 解析名字，停用的地点和管理员也能显示
func decorate(idx *scheduledata.Index, assignments []domain.Assignment) []assignmentView {
	views := make([]assignmentView, 0, len(assignments))
	for _, a := range assignments {
		view := assignmentView{Assignment: a, WorkerName: "Unknown", LocationTitle: "Unknown"}
		if user, ok := idx.UsersByID()[a.UserID]; ok {
			view.WorkerName = user.Name
			view.WorkerInitials = utils.Initials(user.Name)
		}
		if location, ok := idx.LocationsByID()[a.LocationID]; ok {
			view.LocationTitle = location.Name
		}
		views = append(views, view)
	}
	return views
}

func newScheduleView(state scheduledata.State) *scheduleView {
	idx := state.Index

	view := &scheduleView{
		Params:           state.Params,
		Loading:          state.Loading,
		Error:            state.Error,
		Workers:          make([]workerView, 0, len(idx.Workers())),
		Locations:        idx.Locations(),
		TimeSlots:        idx.TimeSlots(),
		Cells:            []cellView{},
		UnassignedShifts: idx.UnassignedShifts(),
	}

	for _, worker := range idx.Workers() {
		view.Workers = append(view.Workers, workerView{User: worker, Initials: utils.Initials(worker.Name)})
	}

	for _, cell := range idx.Cells() {
		view.Cells = append(view.Cells, cellView{
			DayOfWeek:   cell.DayOfWeek,
			DayName:     domain.DayName(cell.DayOfWeek),
			TimeSlotID:  cell.TimeSlotID,
			LocationID:  cell.LocationID,
			Assignments: decorate(idx, cell.Assignments),
		})
	}

	return view
}

// parseOptionalID 空字符串返回 nil
func parseOptionalID(value string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.New("ID 无效")
	}
	return &id, nil
}

func (h *Handler) storeFor(r *http.Request) *scheduledata.Store {
	return h.views.get(currentSession(r).ID, h.upstreamFor(r))
}

// GetSchedule 加载某一周的排班并返回网格
// 不传 week_start 时使用本周
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	weekStart := query.Get("week_start")
	if weekStart == "" {
		weekStart = utils.WeekStartOf(time.Now())
	}
	if err := utils.ValidateWeekStart(weekStart); err != nil {
		h.badRequest(w, r, err)
		return
	}

	locationFilter, err := parseOptionalID(query.Get("location_id"))
	if err != nil {
		h.errorResponse(w, r, "地点ID无效")
		return
	}
	userFilter, err := parseOptionalID(query.Get("user_id"))
	if err != nil {
		h.errorResponse(w, r, "用户ID无效")
		return
	}

	store := h.storeFor(r)
	params := scheduledata.Params{WeekStart: weekStart, LocationFilter: locationFilter, UserFilter: userFilter}
	if err := store.Load(r.Context(), params); err != nil {
		if apiclient.IsUnauthorized(err) {
			h.upstreamError(w, r, err, scheduledata.LoadErrorFallback)
			return
		}
		h.errorResponse(w, r, store.Err())
		return
	}

	h.successResponse(w, r, "获取排班成功", newScheduleView(store.State()))
}

// RefreshSchedule 以当前参数重新加载
func (h *Handler) RefreshSchedule(w http.ResponseWriter, r *http.Request) {
	store := h.storeFor(r)
	if store.Params().WeekStart == "" {
		h.errorResponse(w, r, "尚未加载任何一周的排班")
		return
	}

	if err := store.Refresh(r.Context()); err != nil {
		if apiclient.IsUnauthorized(err) {
			h.upstreamError(w, r, err, scheduledata.LoadErrorFallback)
			return
		}
		h.errorResponse(w, r, store.Err())
		return
	}

	h.successResponse(w, r, "刷新排班成功", newScheduleView(store.State()))
}

// GetCell 在当前快照上查询某个格子，不访问上游
func (h *Handler) GetCell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day        int32 `validate:"gte=0,lte=6"`
		TimeSlotID int64 `validate:"required,gt=0"`
		LocationID int64 `validate:"required,gt=0"`
	}

	query := r.URL.Query()
	day, err := strconv.ParseInt(query.Get("day"), 10, 32)
	if err != nil {
		h.errorResponse(w, r, "星期无效")
		return
	}
	req.Day = int32(day)
	if req.TimeSlotID, err = strconv.ParseInt(query.Get("time_slot_id"), 10, 64); err != nil {
		h.errorResponse(w, r, "时间段ID无效")
		return
	}
	if req.LocationID, err = strconv.ParseInt(query.Get("location_id"), 10, 64); err != nil {
		h.errorResponse(w, r, "地点ID无效")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	snapshot := h.storeFor(r).Snapshot()
	assignments := snapshot.AssignmentsForCell(req.Day, req.TimeSlotID, req.LocationID)

	h.successResponse(w, r, "获取格子成功", decorate(snapshot, assignments))
}

// GetAvailableWorkers 当前周某个格子可排班的助理
func (h *Handler) GetAvailableWorkers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	locationID, err := strconv.ParseInt(query.Get("location_id"), 10, 64)
	if err != nil || locationID <= 0 {
		h.errorResponse(w, r, "地点ID无效")
		return
	}
	timeSlotID, err := strconv.ParseInt(query.Get("time_slot_id"), 10, 64)
	if err != nil || timeSlotID <= 0 {
		h.errorResponse(w, r, "时间段ID无效")
		return
	}

	weekStart := h.storeFor(r).Params().WeekStart
	if weekStart == "" {
		h.errorResponse(w, r, "尚未加载任何一周的排班")
		return
	}

	workers, err := h.upstreamFor(r).AvailableWorkers(r.Context(), locationID, timeSlotID, weekStart)
	if err != nil {
		h.upstreamError(w, r, err, "获取可排班助理失败")
		return
	}

	views := make([]workerView, 0, len(workers))
	for _, worker := range workers {
		views = append(views, workerView{User: worker, Initials: utils.Initials(worker.Name)})
	}

	h.successResponse(w, r, "获取可排班助理成功", views)
}
