// Package schedule holds the booking schedule configuration: the recurring
// weekly hours a business accepts appointments, and explicit blocked dates
// that override them.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DayHours is the bookable window for a single weekday, times in 24-hour
// "HH:MM" format. Nil means closed that day.
type DayHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekHours maps weekdays to their bookable window.
type WeekHours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// For returns the hours configured for the given weekday, nil when closed.
func (w WeekHours) For(day time.Weekday) *DayHours {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// Settings is the single active availability configuration for a business.
type Settings struct {
	ID                  uuid.UUID `json:"id"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	BufferMinutes       int       `json:"buffer_minutes"`
	Timezone            string    `json:"timezone"`
	AllowSameDayBooking bool      `json:"allow_same_day_booking"`
	MaxAdvanceDays      int       `json:"max_advance_days"`
	Hours               WeekHours `json:"hours"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Location resolves the configured timezone, falling back to UTC when the
// name is empty or unknown.
func (s *Settings) Location() *time.Location {
	if s == nil || s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks the settings invariants: a positive slot duration and, for
// every configured weekday, a well-formed start < end pair.
func (s *Settings) Validate() error {
	if s.SlotDurationMinutes <= 0 {
		return errors.New("schedule: slot duration must be positive")
	}
	if s.BufferMinutes < 0 {
		return errors.New("schedule: buffer minutes cannot be negative")
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("schedule: unknown timezone %q", s.Timezone)
		}
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		h := s.Hours.For(day)
		if h == nil {
			continue
		}
		if err := validateWindow(h.Start, h.End); err != nil {
			return fmt.Errorf("schedule: %s: %w", day, err)
		}
	}
	return nil
}

func validateWindow(start, end string) error {
	st, err := time.Parse("15:04", start)
	if err != nil {
		return fmt.Errorf("invalid start time %q", start)
	}
	en, err := time.Parse("15:04", end)
	if err != nil {
		return fmt.Errorf("invalid end time %q", end)
	}
	if !st.Before(en) {
		return fmt.Errorf("start %q must be before end %q", start, end)
	}
	return nil
}

// BlockedDate removes availability for all or part of a calendar day,
// independent of the weekly hours. When AllDay is false both Start and End
// must be set ("HH:MM") with Start < End.
type BlockedDate struct {
	ID     uuid.UUID `json:"id"`
	Date   time.Time `json:"date"`
	AllDay bool      `json:"all_day"`
	Start  string    `json:"start,omitempty"`
	End    string    `json:"end,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// Validate checks the block invariants: a partial-day block needs a
// well-formed start < end pair.
func (b *BlockedDate) Validate() error {
	if b.Date.IsZero() {
		return errors.New("schedule: blocked date requires a date")
	}
	if b.AllDay {
		return nil
	}
	return validateWindow(b.Start, b.End)
}
