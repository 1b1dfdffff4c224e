package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository provides persistence for schedule settings and blocked dates.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository backed by database/sql.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const settingsColumns = `id, slot_duration_minutes, buffer_minutes, timezone, allow_same_day_booking, max_advance_days,
	       monday_start, monday_end, tuesday_start, tuesday_end, wednesday_start, wednesday_end,
	       thursday_start, thursday_end, friday_start, friday_end, saturday_start, saturday_end,
	       sunday_start, sunday_end, updated_at`

// ActiveSettings returns the single active settings record, or nil when none
// exists. Absence is not an error.
func (r *Repository) ActiveSettings(ctx context.Context) (*Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+settingsColumns+`
		FROM availability_settings WHERE active ORDER BY updated_at DESC LIMIT 1`)

	s, err := scanSettings(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("schedule: load active settings: %w", err)
	}
	return s, nil
}

// SaveSettings upserts the active settings record. There is conceptually one
// active record per business, so the write deactivates any previous one.
func (r *Repository) SaveSettings(ctx context.Context, s *Settings) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schedule: save settings: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE availability_settings SET active = FALSE WHERE active AND id <> $1`, s.ID); err != nil {
		return fmt.Errorf("schedule: save settings: deactivate: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO availability_settings (id, active, slot_duration_minutes, buffer_minutes, timezone,
		    allow_same_day_booking, max_advance_days,
		    monday_start, monday_end, tuesday_start, tuesday_end, wednesday_start, wednesday_end,
		    thursday_start, thursday_end, friday_start, friday_end, saturday_start, saturday_end,
		    sunday_start, sunday_end, created_at, updated_at)
		VALUES ($1, TRUE, $2, $3, $4, $5, $6,
		    $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $21)
		ON CONFLICT (id) DO UPDATE SET
		    active = TRUE,
		    slot_duration_minutes = EXCLUDED.slot_duration_minutes,
		    buffer_minutes = EXCLUDED.buffer_minutes,
		    timezone = EXCLUDED.timezone,
		    allow_same_day_booking = EXCLUDED.allow_same_day_booking,
		    max_advance_days = EXCLUDED.max_advance_days,
		    monday_start = EXCLUDED.monday_start, monday_end = EXCLUDED.monday_end,
		    tuesday_start = EXCLUDED.tuesday_start, tuesday_end = EXCLUDED.tuesday_end,
		    wednesday_start = EXCLUDED.wednesday_start, wednesday_end = EXCLUDED.wednesday_end,
		    thursday_start = EXCLUDED.thursday_start, thursday_end = EXCLUDED.thursday_end,
		    friday_start = EXCLUDED.friday_start, friday_end = EXCLUDED.friday_end,
		    saturday_start = EXCLUDED.saturday_start, saturday_end = EXCLUDED.saturday_end,
		    sunday_start = EXCLUDED.sunday_start, sunday_end = EXCLUDED.sunday_end,
		    updated_at = EXCLUDED.updated_at`,
		s.ID, s.SlotDurationMinutes, s.BufferMinutes, s.Timezone,
		s.AllowSameDayBooking, s.MaxAdvanceDays,
		dayStart(s.Hours.Monday), dayEnd(s.Hours.Monday),
		dayStart(s.Hours.Tuesday), dayEnd(s.Hours.Tuesday),
		dayStart(s.Hours.Wednesday), dayEnd(s.Hours.Wednesday),
		dayStart(s.Hours.Thursday), dayEnd(s.Hours.Thursday),
		dayStart(s.Hours.Friday), dayEnd(s.Hours.Friday),
		dayStart(s.Hours.Saturday), dayEnd(s.Hours.Saturday),
		dayStart(s.Hours.Sunday), dayEnd(s.Hours.Sunday),
		now)
	if err != nil {
		return fmt.Errorf("schedule: save settings: upsert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("schedule: save settings: commit: %w", err)
	}
	s.UpdatedAt = now
	return nil
}

// ListBlockedDates returns blocks whose date falls within [start, end]
// inclusive, ordered by date.
func (r *Repository) ListBlockedDates(ctx context.Context, start, end time.Time) ([]BlockedDate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, all_day, start_time, end_time, reason
		FROM blocked_dates
		WHERE date >= $1 AND date <= $2
		ORDER BY date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("schedule: list blocked dates: %w", err)
	}
	defer rows.Close()

	var out []BlockedDate
	for rows.Next() {
		var b BlockedDate
		var startTime, endTime, reason sql.NullString
		if err := rows.Scan(&b.ID, &b.Date, &b.AllDay, &startTime, &endTime, &reason); err != nil {
			return nil, fmt.Errorf("schedule: scan blocked date: %w", err)
		}
		b.Start = startTime.String
		b.End = endTime.String
		b.Reason = reason.String
		out = append(out, b)
	}
	return out, rows.Err()
}

// AddBlockedDate inserts a block.
func (r *Repository) AddBlockedDate(ctx context.Context, b *BlockedDate) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blocked_dates (id, date, all_day, start_time, end_time, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Date, b.AllDay, nullable(b.Start), nullable(b.End), nullable(b.Reason), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("schedule: add blocked date: %w", err)
	}
	return nil
}

// RemoveBlockedDate deletes a block by id.
func (r *Repository) RemoveBlockedDate(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blocked_dates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("schedule: remove blocked date: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettings(row rowScanner) (*Settings, error) {
	var s Settings
	var days [14]sql.NullString
	if err := row.Scan(&s.ID, &s.SlotDurationMinutes, &s.BufferMinutes, &s.Timezone,
		&s.AllowSameDayBooking, &s.MaxAdvanceDays,
		&days[0], &days[1], &days[2], &days[3], &days[4], &days[5], &days[6],
		&days[7], &days[8], &days[9], &days[10], &days[11], &days[12], &days[13],
		&s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Hours = WeekHours{
		Monday:    pairToHours(days[0], days[1]),
		Tuesday:   pairToHours(days[2], days[3]),
		Wednesday: pairToHours(days[4], days[5]),
		Thursday:  pairToHours(days[6], days[7]),
		Friday:    pairToHours(days[8], days[9]),
		Saturday:  pairToHours(days[10], days[11]),
		Sunday:    pairToHours(days[12], days[13]),
	}
	return &s, nil
}

// pairToHours treats a missing start or end as closed for the day.
func pairToHours(start, end sql.NullString) *DayHours {
	if !start.Valid || !end.Valid || start.String == "" || end.String == "" {
		return nil
	}
	return &DayHours{Start: start.String, End: end.String}
}

func dayStart(h *DayHours) any {
	if h == nil {
		return nil
	}
	return h.Start
}

func dayEnd(h *DayHours) any {
	if h == nil {
		return nil
	}
	return h.End
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
