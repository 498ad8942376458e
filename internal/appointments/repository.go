package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores appointments in the relational database.
type Repository struct {
	pool querier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{pool: pool}
}

// NewRepositoryWithQuerier allows injecting mocks for tests.
func NewRepositoryWithQuerier(q querier) *Repository {
	if q == nil {
		panic("appointments: querier required")
	}
	return &Repository{pool: q}
}

// Create inserts a scheduled appointment. timeOfDay is 24-hour HH:MM:SS.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, date time.Time, timeOfDay string) (*Appointment, error) {
	query := `
		INSERT INTO appointments (id, user_id, appointment_date, appointment_time, status)
		VALUES ($1, $2, $3, $4::time, $5)
		RETURNING created_at
	`
	appt := Appointment{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,
		Time:   timeOfDay,
		Status: StatusScheduled,
	}
	if err := r.pool.QueryRow(ctx, query,
		appt.ID,
		userID,
		date,
		timeOfDay,
		StatusScheduled,
	).Scan(&appt.CreatedAt); err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return &appt, nil
}

// ListForUser returns a user's appointments ordered by date then time.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	query := `
		SELECT id, user_id, appointment_date, appointment_time, status, created_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY appointment_date ASC, appointment_time ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list for user: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// BookedTimes returns the display-formatted times already reserved on a date.
// Cancelled appointments do not block their slot.
func (r *Repository) BookedTimes(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT appointment_time
		FROM appointments
		WHERE appointment_date = $1 AND status <> $2
	`
	rows, err := r.pool.Query(ctx, query, date, StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("appointments: booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t pgtype.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("appointments: scan time: %w", err)
		}
		times = append(times, formatTimeOfDay(t, "3:04 PM"))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate times: %w", err)
	}
	return times, nil
}

// ListAll returns every appointment joined with its owner, ordered by date
// then time, for the admin API.
func (r *Repository) ListAll(ctx context.Context) ([]AdminView, error) {
	query := `
		SELECT a.id, u.name, u.email, u.phone_number, a.appointment_date, a.appointment_time, a.status
		FROM appointments a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.appointment_date ASC, a.appointment_time ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: list all: %w", err)
	}
	defer rows.Close()

	var views []AdminView
	for rows.Next() {
		var (
			view AdminView
			date time.Time
			t    pgtype.Time
		)
		if err := rows.Scan(&view.ID, &view.User.Name, &view.User.Email, &view.User.Phone, &date, &t, &view.Status); err != nil {
			return nil, fmt.Errorf("appointments: scan admin view: %w", err)
		}
		view.Date = date.Format("2006-01-02")
		view.Time = formatTimeOfDay(t, "15:04:05")
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate admin views: %w", err)
	}
	return views, nil
}

// UpdateStatus sets the status of an appointment.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("appointments: invalid status %q", status)
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var appts []Appointment
	for rows.Next() {
		var (
			appt Appointment
			t    pgtype.Time
		)
		if err := rows.Scan(&appt.ID, &appt.UserID, &appt.Date, &t, &appt.Status, &appt.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		appt.Time = formatTimeOfDay(t, "15:04:05")
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate: %w", err)
	}
	return appts, nil
}

// formatTimeOfDay renders a TIME column value with the given layout.
func formatTimeOfDay(t pgtype.Time, layout string) string {
	if !t.Valid {
		return ""
	}
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(t.Microseconds) * time.Microsecond).Format(layout)
}
