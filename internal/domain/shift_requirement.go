package domain

// ShiftRequirement 某一周某个 (地点, 时间段) 需要的人数
type ShiftRequirement struct {
	ID              int64  `json:"id"`
	LocationID      int64  `json:"location_id"`
	TimeSlotID      int64  `json:"time_slot_id"`
	WeekStartDate   string `json:"week_start_date"`
	RequiredWorkers int32  `json:"required_workers"`
	CreatedBy       *int64 `json:"created_by,omitempty"`
}

// UnassignedShift 需求人数多于已排人数的班次
type UnassignedShift struct {
	LocationID      int64     `json:"location_id"`
	TimeSlotID      int64     `json:"time_slot_id"`
	LocationName    string    `json:"location_name"`
	TimeSlot        *TimeSlot `json:"time_slot"`
	RequiredWorkers int32     `json:"required_workers"`
	CurrentWorkers  int32     `json:"current_workers"`
}

type CreateShiftRequirementRequest struct {
	LocationID      int64  `json:"location_id" validate:"required,gt=0"`
	TimeSlotID      int64  `json:"time_slot_id" validate:"required,gt=0"`
	WeekStartDate   string `json:"week_start_date" validate:"required"`
	RequiredWorkers int32  `json:"required_workers" validate:"gte=0,lte=100"`
}

// ShiftRequirementUpdate 为 nil 的字段保持不变
type ShiftRequirementUpdate struct {
	LocationID      *int64  `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	TimeSlotID      *int64  `json:"time_slot_id,omitempty" validate:"omitempty,gt=0"`
	WeekStartDate   *string `json:"week_start_date,omitempty"`
	RequiredWorkers *int32  `json:"required_workers,omitempty" validate:"omitempty,gte=0,lte=100"`
}
