package domain

type PreferenceLevel int32

const (
	PreferenceNeutral   PreferenceLevel = 1
	PreferencePreferred PreferenceLevel = 2
)

// UserAvailability 没有记录即表示该时间段不可用
type UserAvailability struct {
	ID              *int64          `json:"id,omitempty"`
	UserID          int64           `json:"user_id"`
	LocationID      int64           `json:"location_id"`
	TimeSlotID      int64           `json:"time_slot_id"`
	WeekStartDate   string          `json:"week_start_date"`
	PreferenceLevel PreferenceLevel `json:"preference_level"`
}

type AvailabilityEntry struct {
	LocationID      int64           `json:"location_id"`
	TimeSlotID      int64           `json:"time_slot_id"`
	PreferenceLevel PreferenceLevel `json:"preference_level"`
}

type AvailabilityBatch struct {
	WeekStartDate string              `json:"week_start_date"`
	Entries       []AvailabilityEntry `json:"entries"`
}
