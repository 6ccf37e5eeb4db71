package utils

import (
	"testing"
	"time"

	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWeekStart(t *testing.T) {
	assert.NoError(t, ValidateWeekStart("2024-01-01"))
	assert.Error(t, ValidateWeekStart("2024-01-02"))
	assert.Error(t, ValidateWeekStart("2024/01/01"))
	assert.Error(t, ValidateWeekStart(""))
}

func TestWeekStartOf(t *testing.T) {
	assert.Equal(t, "2024-01-01", WeekStartOf(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-01", WeekStartOf(time.Date(2024, 1, 4, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-01", WeekStartOf(time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-08", WeekStartOf(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+30*time.Minute, d)

	d, err = ParseClock("17:00:15")
	require.NoError(t, err)
	assert.Equal(t, 17*time.Hour+15*time.Second, d)

	_, err = ParseClock("9am")
	assert.Error(t, err)
}

func TestValidateTimeSlot(t *testing.T) {
	assert.NoError(t, ValidateTimeSlot(&domain.TimeSlot{DayOfWeek: 6, StartTime: "09:00", EndTime: "10:00:00"}))
	assert.Error(t, ValidateTimeSlot(&domain.TimeSlot{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}))
	assert.Error(t, ValidateTimeSlot(&domain.TimeSlot{DayOfWeek: 0, StartTime: "10:00", EndTime: "10:00"}))
	assert.Error(t, ValidateTimeSlot(&domain.TimeSlot{DayOfWeek: 0, StartTime: "xx", EndTime: "10:00"}))
}

func TestSlotInstants(t *testing.T) {
	start, end, err := SlotInstants("2024-01-01", &domain.TimeSlot{DayOfWeek: 2, StartTime: "09:00:00", EndTime: "11:30:00"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03T09:00:00Z", start)
	assert.Equal(t, "2024-01-03T11:30:00Z", end)

	start, end, err = SlotInstants("2024-01-01", nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z", start)
	assert.Equal(t, "2024-01-01T00:00:00Z", end)

	_, _, err = SlotInstants("not-a-date", nil)
	assert.Error(t, err)
}

func TestValidateAvailabilityBatch(t *testing.T) {
	batch := &domain.AvailabilityBatch{
		WeekStartDate: "2024-01-01",
		Entries: []domain.AvailabilityEntry{
			{LocationID: 1, TimeSlotID: 1, PreferenceLevel: domain.PreferenceNeutral},
			{LocationID: 1, TimeSlotID: 2, PreferenceLevel: domain.PreferencePreferred},
		},
	}
	assert.NoError(t, ValidateAvailabilityBatch(batch))

	batch.Entries = append(batch.Entries, domain.AvailabilityEntry{LocationID: 1, TimeSlotID: 1, PreferenceLevel: domain.PreferencePreferred})
	assert.Error(t, ValidateAvailabilityBatch(batch))

	invalid := &domain.AvailabilityBatch{
		WeekStartDate: "2024-01-01",
		Entries:       []domain.AvailabilityEntry{{LocationID: 1, TimeSlotID: 1, PreferenceLevel: 3}},
	}
	assert.Error(t, ValidateAvailabilityBatch(invalid))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "ZW", Initials("张伟"))
	assert.Equal(t, "AS", Initials("Alice Smith"))
	assert.Equal(t, "", Initials("  "))
}

func TestGenerateRandomWorker(t *testing.T) {
	name, email := GenerateRandomWorker("mule.edu")
	assert.NotEmpty(t, name)
	assert.Regexp(t, `^[a-z]+[0-9]{1,3}@mule\.edu$`, email)
}

func TestStandardWeekTimeSlots(t *testing.T) {
	slots := StandardWeekTimeSlots()
	require.Len(t, slots, 20)
	for _, slot := range slots {
		assert.NoError(t, ValidateTimeSlot(&slot))
	}
}

func TestGenerateRandomAssignments(t *testing.T) {
	workers := []domain.User{{ID: 1}, {ID: 2}, {ID: 3}}
	locations := []domain.Location{{ID: 10}}
	slots := []domain.TimeSlot{{ID: 100}, {ID: 101}}

	requests := GenerateRandomAssignments("2024-01-01", workers, locations, slots, 2)

	seen := map[[2]int64]bool{}
	perSlot := map[int64]int{}
	for _, req := range requests {
		key := [2]int64{req.UserID, req.TimeSlotID}
		assert.False(t, seen[key], "同一助理在同一时间段出现了两次")
		seen[key] = true
		perSlot[req.TimeSlotID]++
		assert.Equal(t, "2024-01-01", req.WeekStartDate)
		assert.Equal(t, int64(10), req.LocationID)
	}
	for _, n := range perSlot {
		assert.LessOrEqual(t, n, 2)
	}

	assert.Empty(t, GenerateRandomAssignments("2024-01-01", nil, locations, slots, 2))
}
