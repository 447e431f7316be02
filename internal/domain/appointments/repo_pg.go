package appointments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, user_id, doctor_name, specialty, appointment_date, reason,
	location, notes, status, reminder_sent, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.DoctorName, &a.Specialty,
		&a.AppointmentDate, &a.Reason, &a.Location, &a.Notes, &a.Status,
		&a.ReminderSent, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointments (user_id, doctor_name, specialty,
			appointment_date, reason, location, notes, status, reminder_sent)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		a.UserID, a.DoctorName, a.Specialty, a.AppointmentDate, a.Reason,
		a.Location, a.Notes, a.Status, a.ReminderSent,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) List(ctx context.Context, userID string, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointments WHERE user_id = $1
		ORDER BY appointment_date ASC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id int, userID string) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1 AND user_id = $2`,
		id, userID))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `
		UPDATE appointments SET doctor_name = $3, specialty = $4,
			appointment_date = $5, reason = $6, location = $7, notes = $8,
			status = $9, reminder_sent = $10, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+apptCols,
		a.ID, a.UserID, a.DoctorName, a.Specialty, a.AppointmentDate,
		a.Reason, a.Location, a.Notes, a.Status, a.ReminderSent))
}

func (r *repoPG) Delete(ctx context.Context, id int, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
