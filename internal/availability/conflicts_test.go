package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/localsight/localsight-platform/internal/appointments"
	"github.com/localsight/localsight-platform/internal/schedule"
)

// monday is an arbitrary Monday used throughout the conflict tests.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func appt(start, end time.Time, status appointments.Status) appointments.Appointment {
	return appointments.Appointment{StartTime: start, EndTime: end, Status: status}
}

func at(day time.Time, clock string) time.Time {
	minutes, err := parseClock(clock)
	if err != nil {
		panic(err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

func TestSlotAvailableAppointmentOverlapShapes(t *testing.T) {
	duration := 30 * time.Minute
	distantNow := monday.AddDate(0, 0, -7)

	tests := []struct {
		name      string
		slot      string
		apptStart string
		apptEnd   string
		want      bool
	}{
		{"slot fully inside appointment", "10:00", "09:30", "11:00", false},
		{"appointment fully inside slot", "10:00", "10:10", "10:20", false},
		{"partial overlap on leading edge", "10:00", "09:45", "10:15", false},
		{"partial overlap on trailing edge", "10:00", "10:15", "10:45", false},
		{"exact match", "10:00", "10:00", "10:30", false},
		{"appointment ends when slot starts", "10:00", "09:30", "10:00", true},
		{"appointment starts when slot ends", "10:00", "10:30", "11:00", true},
		{"appointment on a different day", "10:00", "10:00", "10:30", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := monday
			if tt.name == "appointment on a different day" {
				day = monday.AddDate(0, 0, 1)
			}
			appts := []appointments.Appointment{
				appt(at(monday, tt.apptStart), at(monday, tt.apptEnd), appointments.StatusConfirmed),
			}
			got := SlotAvailable(day, tt.slot, duration, appts, nil, true, distantNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotAvailableIgnoresInactiveStatuses(t *testing.T) {
	duration := 30 * time.Minute
	distantNow := monday.AddDate(0, 0, -7)

	for _, status := range []appointments.Status{
		appointments.StatusCancelled,
		appointments.StatusCompleted,
		appointments.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			appts := []appointments.Appointment{
				appt(at(monday, "10:00"), at(monday, "10:30"), status),
			}
			assert.True(t, SlotAvailable(monday, "10:00", duration, appts, nil, true, distantNow),
				"historical appointments must not block new bookings")
		})
	}

	for _, status := range []appointments.Status{
		appointments.StatusPending,
		appointments.StatusConfirmed,
	} {
		t.Run(string(status), func(t *testing.T) {
			appts := []appointments.Appointment{
				appt(at(monday, "10:00"), at(monday, "10:30"), status),
			}
			assert.False(t, SlotAvailable(monday, "10:00", duration, appts, nil, true, distantNow))
		})
	}
}

func TestSlotAvailableFullDayBlock(t *testing.T) {
	duration := 30 * time.Minute
	distantNow := monday.AddDate(0, 0, -7)
	blocks := []schedule.BlockedDate{{Date: monday, AllDay: true}}

	assert.False(t, SlotAvailable(monday, "10:00", duration, nil, blocks, true, distantNow))
	assert.False(t, SlotAvailable(monday, "16:30", duration, nil, blocks, true, distantNow))
	assert.True(t, SlotAvailable(monday.AddDate(0, 0, 1), "10:00", duration, nil, blocks, true, distantNow),
		"full-day block only affects its own date")
}

func TestSlotAvailablePartialBlock(t *testing.T) {
	duration := 30 * time.Minute
	distantNow := monday.AddDate(0, 0, -7)
	blocks := []schedule.BlockedDate{{Date: monday, AllDay: false, Start: "12:00", End: "14:00"}}

	assert.True(t, SlotAvailable(monday, "11:30", duration, nil, blocks, true, distantNow),
		"slot ending exactly at block start is free")
	assert.False(t, SlotAvailable(monday, "11:45", duration, nil, blocks, true, distantNow))
	assert.False(t, SlotAvailable(monday, "12:00", duration, nil, blocks, true, distantNow))
	assert.False(t, SlotAvailable(monday, "13:30", duration, nil, blocks, true, distantNow))
	assert.False(t, SlotAvailable(monday, "13:45", duration, nil, blocks, true, distantNow))
	assert.True(t, SlotAvailable(monday, "14:00", duration, nil, blocks, true, distantNow),
		"slot starting exactly at block end is free")
}

func TestSlotAvailablePartialBlockMissingWindowIgnored(t *testing.T) {
	duration := 30 * time.Minute
	distantNow := monday.AddDate(0, 0, -7)
	blocks := []schedule.BlockedDate{{Date: monday, AllDay: false, Start: "", End: ""}}

	assert.True(t, SlotAvailable(monday, "10:00", duration, nil, blocks, true, distantNow))
}

func TestSlotAvailableSameDayCutoff(t *testing.T) {
	duration := 30 * time.Minute
	now := at(monday, "10:15")

	// Same-day booking disallowed: slots at or before the current instant
	// are gone.
	assert.False(t, SlotAvailable(monday, "09:00", duration, nil, nil, false, now))
	assert.False(t, SlotAvailable(monday, "09:30", duration, nil, nil, false, now))
	assert.False(t, SlotAvailable(monday, "10:00", duration, nil, nil, false, now), "slot already started")
	assert.True(t, SlotAvailable(monday, "10:30", duration, nil, nil, false, now))
	assert.True(t, SlotAvailable(monday, "11:00", duration, nil, nil, false, now))

	// Same-day booking allowed: past slots remain bookable by this rule.
	assert.True(t, SlotAvailable(monday, "09:00", duration, nil, nil, true, now))

	// Cutoff only applies to today.
	tomorrow := monday.AddDate(0, 0, 1)
	assert.True(t, SlotAvailable(tomorrow, "09:00", duration, nil, nil, false, now))
}

func TestSlotAvailableBlockWinsOverEverything(t *testing.T) {
	duration := 30 * time.Minute
	distantNow := monday.AddDate(0, 0, -7)
	appts := []appointments.Appointment{
		appt(at(monday, "10:00"), at(monday, "10:30"), appointments.StatusConfirmed),
	}
	blocks := []schedule.BlockedDate{{Date: monday, AllDay: true}}

	assert.False(t, SlotAvailable(monday, "10:00", duration, appts, blocks, true, distantNow))
}

func TestSlotAvailableUnparseableSlot(t *testing.T) {
	assert.False(t, SlotAvailable(monday, "noon", 30*time.Minute, nil, nil, true, monday))
}
