package availability

import (
	"time"

	"github.com/localsight/localsight-platform/internal/appointments"
	"github.com/localsight/localsight-platform/internal/schedule"
)

// SlotAvailable decides whether one candidate slot on the given day is
// bookable. Checks run in order: full-day block, partial block overlap,
// active appointment overlap, same-day cutoff. All interval comparisons use
// the half-open test on [slotStart, slotEnd).
//
// The function is pure given its inputs; now is passed in rather than read
// from the clock.
func SlotAvailable(day time.Time, slot string, duration time.Duration,
	appts []appointments.Appointment, blocks []schedule.BlockedDate,
	allowSameDay bool, now time.Time) bool {

	slotStart, slotEnd, ok := slotWindow(day, slot, duration)
	if !ok {
		return false
	}

	for _, b := range blocks {
		if b.AllDay && sameDate(b.Date, day) {
			return false
		}
	}

	for _, b := range blocks {
		if b.AllDay || !sameDate(b.Date, day) {
			continue
		}
		blockStart, blockEnd, ok := partialBlockWindow(day, b)
		if !ok {
			continue
		}
		if overlaps(slotStart, slotEnd, blockStart, blockEnd) {
			return false
		}
	}

	for _, a := range appts {
		if !a.Status.Active() {
			continue
		}
		if overlaps(slotStart, slotEnd, a.StartTime, a.EndTime) {
			return false
		}
	}

	// A slot whose start has already passed cannot be booked today unless
	// same-day booking is allowed.
	if !allowSameDay && sameDate(day, now.In(day.Location())) && !slotStart.After(now) {
		return false
	}

	return true
}

// slotWindow resolves a "HH:MM" slot on day into its absolute [start, end)
// window in day's location.
func slotWindow(day time.Time, slot string, duration time.Duration) (time.Time, time.Time, bool) {
	minutes, err := parseClock(slot)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
	return start, start.Add(duration), true
}

func partialBlockWindow(day time.Time, b schedule.BlockedDate) (time.Time, time.Time, bool) {
	startMin, err := parseClock(b.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endMin, err := parseClock(b.End)
	if err != nil || startMin >= endMin {
		return time.Time{}, time.Time{}, false
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startMin/60, startMin%60, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), endMin/60, endMin%60, 0, 0, day.Location())
	return start, end, true
}

// overlaps is the standard half-open interval test: [aStart, aEnd) and
// [bStart, bEnd) overlap iff aStart < bEnd && aEnd > bStart. It catches all
// three shapes: contained, containing, and partial edge overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// sameDate compares calendar dates by each value's own wall clock.
func sameDate(a, b time.Time) bool {
	return a.Format(dateFormat) == b.Format(dateFormat)
}
