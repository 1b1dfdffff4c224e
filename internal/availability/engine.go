package availability

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localsight/localsight-platform/internal/appointments"
	"github.com/localsight/localsight-platform/internal/observability/metrics"
	"github.com/localsight/localsight-platform/internal/schedule"
	"github.com/localsight/localsight-platform/pkg/logging"
)

var availabilityTracer = otel.Tracer("localsight.internal.availability")

// SettingsProvider resolves the single active schedule configuration.
// A nil settings value with a nil error means "not configured".
type SettingsProvider interface {
	ActiveSettings(ctx context.Context) (*schedule.Settings, error)
}

// AppointmentSource lists active appointments overlapping a time range.
type AppointmentSource interface {
	ListOverlapping(ctx context.Context, start, end time.Time) ([]appointments.Appointment, error)
}

// BlockedDateSource lists blocks whose date falls within a range.
type BlockedDateSource interface {
	ListBlockedDates(ctx context.Context, start, end time.Time) ([]schedule.BlockedDate, error)
}

// EngineConfig wires an Engine's collaborators. Settings, Appointments and
// BlockedDates are required; everything else has defaults.
type EngineConfig struct {
	Settings     SettingsProvider
	Appointments AppointmentSource
	BlockedDates BlockedDateSource

	Cache    Cache
	Fallback *FallbackPolicy
	Logger   *logging.Logger
	Metrics  *metrics.AvailabilityMetrics

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine computes per-day slot availability for date ranges. Reads never
// fail: every path returns a Result carrying real, cached or fallback data.
type Engine struct {
	settings     SettingsProvider
	appointments AppointmentSource
	blocked      BlockedDateSource
	cache        Cache
	fallback     FallbackPolicy
	logger       *logging.Logger
	metrics      *metrics.AvailabilityMetrics
	now          func() time.Time
}

// NewEngine constructs an availability engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Settings == nil || cfg.Appointments == nil || cfg.BlockedDates == nil {
		return nil, errors.New("availability: settings, appointments and blocked date sources are required")
	}
	e := &Engine{
		settings:     cfg.Settings,
		appointments: cfg.Appointments,
		blocked:      cfg.BlockedDates,
		cache:        cfg.Cache,
		fallback:     DefaultFallbackPolicy(),
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		now:          cfg.Now,
	}
	if e.cache == nil {
		e.cache = NewMemoryCache(DefaultCacheTTL)
	}
	if cfg.Fallback != nil {
		e.fallback = *cfg.Fallback
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// ByDateRange returns availability for every day in [start, end] inclusive.
// Cached results younger than the TTL are returned without touching any
// collaborator.
func (e *Engine) ByDateRange(ctx context.Context, start, end time.Time) *Result {
	ctx, span := availabilityTracer.Start(ctx, "availability.by_date_range")
	defer span.End()

	key := rangeKey(start, end)
	span.SetAttributes(attribute.String("localsight.range", key))

	if cached, ok := e.cache.Get(ctx, key); ok {
		e.metrics.ObserveCacheHit()
		return &Result{Availability: cached}
	}
	e.metrics.ObserveCacheMiss()

	began := time.Now()
	res := e.compute(ctx, start, end, key)
	e.metrics.ObserveComputeDuration(time.Since(began).Seconds())
	if res.Error != "" {
		span.SetAttributes(attribute.String("localsight.fallback_error", res.Error))
	}
	return res
}

// ForMonth returns availability for every day of the month containing the
// given time.
func (e *Engine) ForMonth(ctx context.Context, month time.Time) *Result {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)
	return e.ByDateRange(ctx, first, last)
}

// InvalidateCache drops cached results. The cache is keyed by whole ranges
// ("start_end" ISO dates), so a non-empty key only removes the entry whose
// key exactly matches; it does not carve a single day out of a range entry.
// An empty key clears everything.
func (e *Engine) InvalidateCache(ctx context.Context, key string) {
	if key == "" {
		e.cache.InvalidateAll(ctx)
		return
	}
	e.cache.Invalidate(ctx, key)
}

// compute runs the fetch-and-aggregate path. Any panic is converted into a
// fallback result so the caller never sees a failure.
func (e *Engine) compute(ctx context.Context, start, end time.Time, key string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("availability compute panicked", "error", fmt.Sprint(r))
			e.metrics.ObserveFallback("panic")
			res = e.fallback.Result(midnight(start), midnight(end), fmt.Sprintf("availability: %v", r), "")
		}
	}()

	fetchEnd := midnight(end).AddDate(0, 0, 1)

	var (
		settings *schedule.Settings
		appts    []appointments.Appointment
		blocks   []schedule.BlockedDate

		settingsErr, apptsErr, blocksErr error
	)

	// The three reads are independent; issue them concurrently.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		settings, settingsErr = e.settings.ActiveSettings(ctx)
	}()
	go func() {
		defer wg.Done()
		appts, apptsErr = e.appointments.ListOverlapping(ctx, midnight(start), fetchEnd)
	}()
	go func() {
		defer wg.Done()
		blocks, blocksErr = e.blocked.ListBlockedDates(ctx, midnight(start), midnight(end))
	}()
	wg.Wait()

	if settingsErr != nil {
		e.logger.Error("schedule settings fetch failed", "error", settingsErr)
		e.metrics.ObserveFallback("settings_error")
		return e.fallback.Result(midnight(start), midnight(end), settingsErr.Error(), "")
	}
	if settings == nil {
		e.metrics.ObserveFallback("not_configured")
		return e.fallback.Result(midnight(start), midnight(end), "",
			"availability not configured; showing default business hours")
	}
	if apptsErr != nil {
		e.logger.Warn("appointment fetch failed, treating as none", "error", apptsErr)
		appts = nil
	}
	if blocksErr != nil {
		e.logger.Warn("blocked date fetch failed, treating as none", "error", blocksErr)
		blocks = nil
	}

	loc := settings.Location()
	now := e.now().In(loc)
	first := dateIn(start, loc)
	last := dateIn(end, loc)

	availability := make(AvailabilityMap)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		availability[day.Format(dateFormat)] = aggregateDay(day, settings, appts, blocks, now)
	}

	e.cache.Set(ctx, key, availability)
	return &Result{Availability: availability}
}

// aggregateDay generates the day's slots, evaluates each and folds the
// verdicts into per-day counts and a rounded percentage.
func aggregateDay(day time.Time, s *schedule.Settings,
	appts []appointments.Appointment, blocks []schedule.BlockedDate, now time.Time) DayAvailability {

	slots := SlotsForDay(s.Hours.For(day.Weekday()), s.SlotDurationMinutes)
	duration := time.Duration(s.SlotDurationMinutes) * time.Minute

	available := make([]string, 0, len(slots))
	occupied := make([]string, 0)
	for _, slot := range slots {
		if SlotAvailable(day, slot, duration, appts, blocks, s.AllowSameDayBooking, now) {
			available = append(available, slot)
		} else {
			occupied = append(occupied, slot)
		}
	}

	total := len(slots)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(len(available)) / float64(total) * 100))
	}

	return DayAvailability{
		Date:           day.Format(dateFormat),
		TotalSlots:     total,
		AvailableSlots: len(available),
		OccupiedSlots:  len(occupied),
		Percentage:     percentage,
		AvailableTimes: available,
		OccupiedTimes:  occupied,
	}
}

func rangeKey(start, end time.Time) string {
	return start.Format(dateFormat) + "_" + end.Format(dateFormat)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateIn rebuilds t's calendar date at midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
