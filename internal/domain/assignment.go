package domain

// Assignment 某个助理在某一周、某个时间段、某个地点的一次排班
type Assignment struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	LocationID    int64     `json:"location_id"`
	TimeSlotID    int64     `json:"time_slot_id"`
	WeekStartDate string    `json:"week_start_date"` // YYYY-MM-DD
	AssignedBy    *int64    `json:"assigned_by,omitempty"`
	UserName      *string   `json:"user_name,omitempty"`
	LocationName  *string   `json:"location_name,omitempty"`
	TimeSlot      *TimeSlot `json:"time_slot,omitempty"`
	Start         *string   `json:"start,omitempty"`
	End           *string   `json:"end,omitempty"`
	Title         *string   `json:"title,omitempty"`
}

// AssignmentFilter 对应 GET /assignments 的查询参数
type AssignmentFilter struct {
	WeekStart  string
	LocationID *int64
	UserID     *int64
}

type CreateAssignmentRequest struct {
	UserID        int64  `json:"user_id"`
	TimeSlotID    int64  `json:"time_slot_id"`
	LocationID    int64  `json:"location_id"`
	WeekStartDate string `json:"week_start_date"`
}

type MoveAssignmentRequest struct {
	NewTimeSlotID int64  `json:"new_time_slot_id"`
	NewLocationID int64  `json:"new_location_id"`
	NewStart      string `json:"new_start"`
	NewEnd        string `json:"new_end"`
}
