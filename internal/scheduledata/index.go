package scheduledata

import (
	"log/slog"
	"slices"

	"github.com/mulescheduler/shift-grid/internal/domain"
)

// Params 一次加载的参数，WeekStart 应为周一（由调用方保证，这里不校验）
type Params struct {
	WeekStart      string `json:"weekStart"`
	LocationFilter *int64 `json:"locationFilter"`
	UserFilter     *int64 `json:"userFilter"`
}

func (p Params) assignmentFilter() domain.AssignmentFilter {
	return domain.AssignmentFilter{
		WeekStart:  p.WeekStart,
		LocationID: p.LocationFilter,
		UserID:     p.UserFilter,
	}
}

// rawData 一个加载周期内从上游拿到的原始数据
type rawData struct {
	assignments  []domain.Assignment
	users        []domain.User
	locations    []domain.Location
	timeSlots    []domain.TimeSlot
	requirements []domain.ShiftRequirement // nil 表示没有拉取班次需求
}

// Index 某一个加载周期的只读投影，构建完成后不再修改，可以在多个 goroutine 间共享
type Index struct {
	params Params

	allUsers        []domain.User
	workers         []domain.User
	allLocations    []domain.Location
	activeLocations []domain.Location
	timeSlots       []domain.TimeSlot
	assignments     []domain.Assignment
	requirements    []domain.ShiftRequirement

	// 以下 map 均基于未过滤的数据，保证引用了停用地点或管理员的排班仍然能显示名字
	usersByID       map[int64]*domain.User
	locationsByID   map[int64]*domain.Location
	timeSlotsByID   map[int64]*domain.TimeSlot
	assignmentsByID map[int64]*domain.Assignment

	// grid: dayOfWeek -> timeSlotID -> locationID -> [assignmentID...]
	grid map[int32]map[int64]map[int64][]int64
}

func emptyIndex(params Params) *Index {
	return buildIndex(params, &rawData{})
}

func buildIndex(params Params, raw *rawData) *Index {
	idx := &Index{
		params:          params,
		allUsers:        nonNil(raw.users),
		workers:         make([]domain.User, 0),
		allLocations:    nonNil(raw.locations),
		activeLocations: make([]domain.Location, 0),
		timeSlots:       nonNil(raw.timeSlots),
		assignments:     nonNil(raw.assignments),
		requirements:    raw.requirements,
		usersByID:       make(map[int64]*domain.User, len(raw.users)),
		locationsByID:   make(map[int64]*domain.Location, len(raw.locations)),
		timeSlotsByID:   make(map[int64]*domain.TimeSlot, len(raw.timeSlots)),
		assignmentsByID: make(map[int64]*domain.Assignment, len(raw.assignments)),
		grid:            make(map[int32]map[int64]map[int64][]int64),
	}

	for i := range idx.allUsers {
		user := &idx.allUsers[i]
		idx.usersByID[user.ID] = user
		if user.IsWorker() {
			idx.workers = append(idx.workers, *user)
		}
	}

	for i := range idx.allLocations {
		location := &idx.allLocations[i]
		idx.locationsByID[location.ID] = location
		if location.IsActive {
			idx.activeLocations = append(idx.activeLocations, *location)
		}
	}

	for i := range idx.timeSlots {
		idx.timeSlotsByID[idx.timeSlots[i].ID] = &idx.timeSlots[i]
	}

	for i := range idx.assignments {
		assignment := &idx.assignments[i]
		idx.assignmentsByID[assignment.ID] = assignment

		timeSlot, ok := idx.timeSlotsByID[assignment.TimeSlotID]
		if !ok {
			// 数据可能不完整或已过期，跳过而不是报错
			slog.Warn("排班引用了未知的时间段，已跳过", "assignment_id", assignment.ID, "time_slot_id", assignment.TimeSlotID)
			continue
		}

		dayMap, exists := idx.grid[timeSlot.DayOfWeek]
		if !exists {
			dayMap = make(map[int64]map[int64][]int64)
			idx.grid[timeSlot.DayOfWeek] = dayMap
		}

		timeSlotMap, exists := dayMap[assignment.TimeSlotID]
		if !exists {
			timeSlotMap = make(map[int64][]int64)
			dayMap[assignment.TimeSlotID] = timeSlotMap
		}

		timeSlotMap[assignment.LocationID] = append(timeSlotMap[assignment.LocationID], assignment.ID)
	}

	return idx
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (idx *Index) Params() Params {
	return idx.params
}

func (idx *Index) WeekStart() string {
	return idx.params.WeekStart
}

// AssignmentsForCell 返回某个格子里的排班，顺序与上游返回的顺序一致；任意一层不存在时返回空切片
func (idx *Index) AssignmentsForCell(dayOfWeek int32, timeSlotID, locationID int64) []domain.Assignment {
	ids := idx.grid[dayOfWeek][timeSlotID][locationID]

	assignments := make([]domain.Assignment, 0, len(ids))
	for _, id := range ids {
		if assignment, ok := idx.assignmentsByID[id]; ok {
			assignments = append(assignments, *assignment)
		}
	}
	return assignments
}

// HasAssignment 本地快照中是否已存在该助理在某一周 (时间段, 地点) 的排班
// 没有 week_start_date 的排班视为属于当前加载的周
func (idx *Index) HasAssignment(weekStart string, userID, timeSlotID, locationID int64) bool {
	for i := range idx.assignments {
		a := &idx.assignments[i]
		week := a.WeekStartDate
		if week == "" {
			week = idx.params.WeekStart
		}
		if week == weekStart && a.UserID == userID && a.TimeSlotID == timeSlotID && a.LocationID == locationID {
			return true
		}
	}
	return false
}

// Workers 可以被拖拽排班的助理（role = user）
func (idx *Index) Workers() []domain.User {
	return idx.workers
}

// AllUsers 所有角色的用户
func (idx *Index) AllUsers() []domain.User {
	return idx.allUsers
}

// Locations 可用于排班的地点（is_active = true）
func (idx *Index) Locations() []domain.Location {
	return idx.activeLocations
}

func (idx *Index) TimeSlots() []domain.TimeSlot {
	return idx.timeSlots
}

func (idx *Index) Assignments() []domain.Assignment {
	return idx.assignments
}

// 以下返回的 map 只读

func (idx *Index) UsersByID() map[int64]*domain.User {
	return idx.usersByID
}

func (idx *Index) LocationsByID() map[int64]*domain.Location {
	return idx.locationsByID
}

func (idx *Index) TimeSlotsByID() map[int64]*domain.TimeSlot {
	return idx.timeSlotsByID
}

func (idx *Index) AssignmentsByID() map[int64]*domain.Assignment {
	return idx.assignmentsByID
}

// UnassignedShifts 对比班次需求与已排人数，返回缺人的班次
// 没有拉取班次需求时返回空切片
func (idx *Index) UnassignedShifts() []domain.UnassignedShift {
	shifts := []domain.UnassignedShift{}
	if idx.requirements == nil {
		return shifts
	}

	// 按助理过滤时已排人数不完整，无法得出有意义的缺口
	if idx.params.UserFilter != nil {
		return shifts
	}

	for _, req := range idx.requirements {
		if req.WeekStartDate != "" && req.WeekStartDate != idx.params.WeekStart {
			continue
		}
		if idx.params.LocationFilter != nil && *idx.params.LocationFilter != req.LocationID {
			continue
		}

		timeSlot, ok := idx.timeSlotsByID[req.TimeSlotID]
		if !ok {
			continue
		}

		current := int32(len(idx.grid[timeSlot.DayOfWeek][req.TimeSlotID][req.LocationID]))
		if current >= req.RequiredWorkers {
			continue
		}

		locationName := "Unknown"
		if location, ok := idx.locationsByID[req.LocationID]; ok {
			locationName = location.Name
		}

		slot := *timeSlot
		shifts = append(shifts, domain.UnassignedShift{
			LocationID:      req.LocationID,
			TimeSlotID:      req.TimeSlotID,
			LocationName:    locationName,
			TimeSlot:        &slot,
			RequiredWorkers: req.RequiredWorkers,
			CurrentWorkers:  current,
		})
	}

	return shifts
}

// Cell 网格中一个非空的格子
type Cell struct {
	DayOfWeek   int32               `json:"dayOfWeek"`
	TimeSlotID  int64               `json:"timeSlotID"`
	LocationID  int64               `json:"locationID"`
	Assignments []domain.Assignment `json:"assignments"`
}

// Cells 按 时间段 -> 地点 的顺序列出所有非空格子
// 地点按上游返回的顺序排列，引用了未知地点的格子按 ID 升序排在最后
func (idx *Index) Cells() []Cell {
	cells := []Cell{}
	for _, timeSlot := range idx.timeSlots {
		locationMap, ok := idx.grid[timeSlot.DayOfWeek][timeSlot.ID]
		if !ok {
			continue
		}
		for _, locationID := range idx.orderedLocationIDs(locationMap) {
			cells = append(cells, Cell{
				DayOfWeek:   timeSlot.DayOfWeek,
				TimeSlotID:  timeSlot.ID,
				LocationID:  locationID,
				Assignments: idx.AssignmentsForCell(timeSlot.DayOfWeek, timeSlot.ID, locationID),
			})
		}
	}
	return cells
}

func (idx *Index) orderedLocationIDs(locationMap map[int64][]int64) []int64 {
	ids := make([]int64, 0, len(locationMap))
	for _, location := range idx.allLocations {
		if _, ok := locationMap[location.ID]; ok {
			ids = append(ids, location.ID)
		}
	}

	unknown := make([]int64, 0)
	for locationID := range locationMap {
		if _, ok := idx.locationsByID[locationID]; !ok {
			unknown = append(unknown, locationID)
		}
	}
	slices.Sort(unknown)

	return append(ids, unknown...)
}
