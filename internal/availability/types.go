// Package availability computes which discrete time slots are bookable for
// each day in a requested range, given the recurring weekly schedule, booked
// appointments and blocked dates. Reads are best-effort: a missing
// configuration or a downstream failure degrades to a conservative fully-open
// default rather than an error.
package availability

const dateFormat = "2006-01-02"

// DayAvailability is the engine output for one calendar day. AvailableTimes
// and OccupiedTimes partition the day's generated slots, each in ascending
// chronological order.
type DayAvailability struct {
	Date           string   `json:"date"`
	TotalSlots     int      `json:"total_slots"`
	AvailableSlots int      `json:"available_slots"`
	OccupiedSlots  int      `json:"occupied_slots"`
	Percentage     int      `json:"percentage"`
	AvailableTimes []string `json:"available_times"`
	OccupiedTimes  []string `json:"occupied_times"`
}

// AvailabilityMap maps ISO calendar dates to per-day availability, one entry
// per day in the requested range inclusive.
type AvailabilityMap map[string]DayAvailability

// Result is returned by every engine read. Error is set when a failure forced
// the fallback; Message carries informational degradation context such as
// "not configured". Both empty means real (or cached) data.
type Result struct {
	Availability AvailabilityMap `json:"availability"`
	Error        string          `json:"error,omitempty"`
	Message      string          `json:"message,omitempty"`
}

// Degraded reports whether the result came from the fallback policy.
func (r *Result) Degraded() bool {
	return r.Error != "" || r.Message != ""
}
