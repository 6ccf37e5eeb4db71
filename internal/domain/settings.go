package domain

type GlobalSettings struct {
	MaxWorkersPerShift     int32  `json:"max_workers_per_shift"`
	MaxHoursPerUserPerWeek *int32 `json:"max_hours_per_user_per_week"`
}
