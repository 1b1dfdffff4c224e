package availability

import (
	"time"

	"github.com/localsight/localsight-platform/internal/schedule"
)

// FallbackPolicy produces the conservative "assume open" result returned when
// the schedule is not configured or a computation step fails. Every slot in a
// fixed business-hours window is reported available, so a degraded read never
// hides bookable time from the caller.
type FallbackPolicy struct {
	Hours       schedule.DayHours
	SlotMinutes int
}

// DefaultFallbackPolicy is 09:00-17:00 with 60-minute slots.
func DefaultFallbackPolicy() FallbackPolicy {
	return FallbackPolicy{
		Hours:       schedule.DayHours{Start: "09:00", End: "17:00"},
		SlotMinutes: 60,
	}
}

// Result builds a fully-open availability map for every day in
// [start, end]. errMsg is set when a failure triggered the fallback; message
// carries informational context when the schedule is simply not configured.
func (p FallbackPolicy) Result(start, end time.Time, errMsg, message string) *Result {
	slots := SlotsForDay(&p.Hours, p.SlotMinutes)
	percentage := 0
	if len(slots) > 0 {
		percentage = 100
	}

	availability := make(AvailabilityMap)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		times := make([]string, len(slots))
		copy(times, slots)
		availability[day.Format(dateFormat)] = DayAvailability{
			Date:           day.Format(dateFormat),
			TotalSlots:     len(slots),
			AvailableSlots: len(slots),
			OccupiedSlots:  0,
			Percentage:     percentage,
			AvailableTimes: times,
			OccupiedTimes:  []string{},
		}
	}
	return &Result{Availability: availability, Error: errMsg, Message: message}
}
