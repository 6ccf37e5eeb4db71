package domain

// TimeSlot 每周重复的时间段，与地点无关
type TimeSlot struct {
	ID        int64  `json:"id"`
	DayOfWeek int32  `json:"day_of_week"` // 0 = 周一, 6 = 周日
	StartTime string `json:"start_time"`  // HH:MM[:SS]
	EndTime   string `json:"end_time"`
}

var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName 超出范围时返回空字符串
func DayName(day int32) string {
	if day < 0 || int(day) >= len(DayNames) {
		return ""
	}
	return DayNames[day]
}

func (ts *TimeSlot) DayName() string {
	return DayName(ts.DayOfWeek)
}
