package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no appointment matches the given id.
	ErrNotFound = errors.New("appointments: not found")
	// ErrConflict is returned when the database exclusion constraint rejects
	// an overlapping active appointment.
	ErrConflict = errors.New("appointments: time window already booked")
)

// exclusion_violation, raised by the no-overlap constraint on appointments.
const pgExclusionViolation = "23P01"

type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for appointments.
type Repository struct {
	db db
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db db) *Repository {
	return &Repository{db: db}
}

// ListOverlapping returns active appointments whose window overlaps
// [start, end). Cancelled, completed and no-show rows never participate.
func (r *Repository) ListOverlapping(ctx context.Context, start, end time.Time) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, start_time, end_time, status, location, customer_name, created_at
		FROM appointments
		WHERE start_time < $2 AND end_time > $1
		  AND status IN ('pending', 'confirmed')
		ORDER BY start_time`, start, end)
	if err != nil {
		return nil, fmt.Errorf("appointments: list overlapping: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.StartTime, &a.EndTime, &a.Status, &a.Location, &a.CustomerName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts an appointment row. An overlap with another active
// appointment surfaces as ErrConflict.
func (r *Repository) Create(ctx context.Context, a *Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (id, start_time, end_time, status, location, customer_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.StartTime, a.EndTime, a.Status, a.Location, a.CustomerName, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return ErrConflict
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// UpdateStatus transitions an appointment to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a single appointment, ErrNotFound when missing.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.db.QueryRow(ctx, `
		SELECT id, start_time, end_time, status, location, customer_name, created_at
		FROM appointments WHERE id = $1`, id).
		Scan(&a.ID, &a.StartTime, &a.EndTime, &a.Status, &a.Location, &a.CustomerName, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get: %w", err)
	}
	return &a, nil
}
