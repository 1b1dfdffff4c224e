package availability

import (
	"fmt"
	"time"

	"github.com/localsight/localsight-platform/internal/schedule"
)

// SlotsForDay expands a weekday's configured hours into the ordered list of
// candidate slot start times ("HH:MM"), stepping by slotMinutes from the
// opening time. A slot that would extend past the closing time is excluded.
// Nil hours mean the day is closed and contributes no slots.
func SlotsForDay(hours *schedule.DayHours, slotMinutes int) []string {
	if hours == nil || slotMinutes <= 0 {
		return nil
	}
	start, err := parseClock(hours.Start)
	if err != nil {
		return nil
	}
	end, err := parseClock(hours.End)
	if err != nil {
		return nil
	}
	if start >= end {
		return nil
	}

	var slots []string
	for m := start; m+slotMinutes <= end; m += slotMinutes {
		slots = append(slots, formatClock(m))
	}
	return slots
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("availability: parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
