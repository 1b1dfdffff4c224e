package schedule

import (
	"testing"
	"time"
)

func TestWeekHoursFor(t *testing.T) {
	hours := WeekHours{
		Monday: &DayHours{Start: "09:00", End: "17:00"},
		Sunday: &DayHours{Start: "10:00", End: "14:00"},
	}

	if got := hours.For(time.Monday); got == nil || got.Start != "09:00" {
		t.Fatalf("expected monday hours, got %+v", got)
	}
	if got := hours.For(time.Sunday); got == nil || got.Start != "10:00" {
		t.Fatalf("expected sunday hours, got %+v", got)
	}
	if got := hours.For(time.Wednesday); got != nil {
		t.Fatalf("expected wednesday closed, got %+v", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := Settings{
		SlotDurationMinutes: 30,
		Timezone:            "America/New_York",
		Hours: WeekHours{
			Monday: &DayHours{Start: "09:00", End: "17:00"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid settings, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero slot duration", func(s *Settings) { s.SlotDurationMinutes = 0 }},
		{"negative buffer", func(s *Settings) { s.BufferMinutes = -5 }},
		{"unknown timezone", func(s *Settings) { s.Timezone = "Mars/Olympus" }},
		{"inverted window", func(s *Settings) { s.Hours.Monday = &DayHours{Start: "17:00", End: "09:00"} }},
		{"unparseable window", func(s *Settings) { s.Hours.Monday = &DayHours{Start: "9am", End: "5pm"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			tc.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestSettingsLocationFallsBackToUTC(t *testing.T) {
	s := &Settings{Timezone: "Not/AZone"}
	if loc := s.Location(); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
	var nilSettings *Settings
	if loc := nilSettings.Location(); loc != time.UTC {
		t.Fatalf("expected UTC for nil settings, got %v", loc)
	}
}

func TestBlockedDateValidate(t *testing.T) {
	date := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)

	allDay := BlockedDate{Date: date, AllDay: true}
	if err := allDay.Validate(); err != nil {
		t.Fatalf("expected valid all-day block, got %v", err)
	}

	partial := BlockedDate{Date: date, Start: "12:00", End: "13:00"}
	if err := partial.Validate(); err != nil {
		t.Fatalf("expected valid partial block, got %v", err)
	}

	missing := BlockedDate{AllDay: true}
	if err := missing.Validate(); err == nil {
		t.Fatalf("expected error for missing date")
	}

	noWindow := BlockedDate{Date: date}
	if err := noWindow.Validate(); err == nil {
		t.Fatalf("expected error for partial block without window")
	}
}
