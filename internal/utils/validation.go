package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/mulescheduler/shift-grid/internal/domain"
)

const (
	DateLayout    = "2006-01-02"
	InstantLayout = "2006-01-02T15:04:05Z"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// ValidateWeekStart 周起始日期必须是 YYYY-MM-DD 格式的周一
func ValidateWeekStart(weekStart string) error {
	date, err := time.Parse(DateLayout, weekStart)
	if err != nil {
		return fmt.Errorf("周起始日期 %q 格式错误", weekStart)
	}
	if date.Weekday() != time.Monday {
		return fmt.Errorf("周起始日期 %s 不是周一", weekStart)
	}
	return nil
}

// WeekStartOf t 所在周的周一
func WeekStartOf(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

// ParseClock 解析 HH:MM 或 HH:MM:SS，返回距离零点的时长
func ParseClock(clock string) (time.Duration, error) {
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("时间 %q 格式错误", clock)
}

func ValidateTimeSlot(slot *domain.TimeSlot) error {
	if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
		return fmt.Errorf("星期 %d 超出范围", slot.DayOfWeek)
	}
	start, err := ParseClock(slot.StartTime)
	if err != nil {
		return fmt.Errorf("开始时间格式错误: %w", err)
	}
	end, err := ParseClock(slot.EndTime)
	if err != nil {
		return fmt.Errorf("结束时间格式错误: %w", err)
	}
	if end <= start {
		return errors.New("结束时间必须晚于开始时间")
	}
	return nil
}

// SlotInstants 计算某一周中某个时间段的开始和结束时刻
// 时间段为 nil 或格式无法解析时，两个时刻都退化为周起始日的零点
func SlotInstants(weekStart string, slot *domain.TimeSlot) (string, string, error) {
	monday, err := time.Parse(DateLayout, weekStart)
	if err != nil {
		return "", "", fmt.Errorf("周起始日期 %q 格式错误", weekStart)
	}

	fallback := monday.Format(InstantLayout)
	if slot == nil {
		return fallback, fallback, nil
	}

	start, err := ParseClock(slot.StartTime)
	if err != nil {
		return fallback, fallback, nil
	}
	end, err := ParseClock(slot.EndTime)
	if err != nil {
		return fallback, fallback, nil
	}

	day := monday.AddDate(0, 0, int(slot.DayOfWeek))
	return day.Add(start).Format(InstantLayout), day.Add(end).Format(InstantLayout), nil
}

// ValidateAvailabilityBatch 同一批次中不能重复提交同一个 (地点, 时间段)
func ValidateAvailabilityBatch(batch *domain.AvailabilityBatch) error {
	if err := ValidateWeekStart(batch.WeekStartDate); err != nil {
		return err
	}

	type key struct {
		locationID int64
		timeSlotID int64
	}
	seen := make(map[key]bool, len(batch.Entries))
	for i, entry := range batch.Entries {
		if entry.PreferenceLevel != domain.PreferenceNeutral && entry.PreferenceLevel != domain.PreferencePreferred {
			return fmt.Errorf("第 %d 项的偏好等级 %d 无效", i+1, entry.PreferenceLevel)
		}
		k := key{entry.LocationID, entry.TimeSlotID}
		if seen[k] {
			return fmt.Errorf("第 %d 项与之前的项重复", i+1)
		}
		seen[k] = true
	}
	return nil
}
