package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localsight/localsight-platform/pkg/logging"
)

var appointmentsTracer = otel.Tracer("localsight.internal.appointments")

// ErrInvalidWindow is returned when an appointment's times are not a valid
// half-open interval.
var ErrInvalidWindow = errors.New("appointments: start time must be before end time")

// CacheInvalidator drops cached availability after a write. An empty date
// clears every cached range.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context, date string)
}

// Service books and transitions appointments, keeping the availability cache
// coherent with writes.
type Service struct {
	repo        *Repository
	invalidator CacheInvalidator
	logger      *logging.Logger
}

// NewService constructs an appointments service. The invalidator may be nil
// when no availability cache is wired.
func NewService(repo *Repository, invalidator CacheInvalidator, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, invalidator: invalidator, logger: logger}
}

// Book persists a new pending appointment and invalidates cached
// availability so callers immediately see the slot as occupied.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()

	if !a.StartTime.Before(a.EndTime) {
		return ErrInvalidWindow
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	span.SetAttributes(
		attribute.String("localsight.appointment_id", a.ID.String()),
		attribute.String("localsight.status", string(a.Status)),
	)

	if err := s.repo.Create(ctx, a); err != nil {
		span.RecordError(err)
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("appointment booked",
		"appointment_id", a.ID,
		"start_time", a.StartTime,
		"end_time", a.EndTime,
	)
	return nil
}

// Cancel releases an appointment's slot.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusCancelled)
}

// Confirm marks a pending appointment as confirmed. The slot stays occupied.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusConfirmed)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, status Status) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("localsight.appointment_id", id.String()),
		attribute.String("localsight.status", string(status)),
	)

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		span.RecordError(err)
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("appointment status changed", "appointment_id", id, "status", status)
	return nil
}

// Get returns a single appointment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	// Range cache keys cannot be matched from a single appointment date, so
	// writes clear the whole cache.
	s.invalidator.InvalidateCache(ctx, "")
}
