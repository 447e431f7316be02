package symptoms

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const symptomCols = `id, user_id, symptom_name, severity, description, location,
	duration, time_of_day, triggers, medications, notes, date_recorded,
	created_at, updated_at`

const symptomOrder = `ORDER BY date_recorded DESC, created_at DESC`

func scanSymptom(row pgx.Row) (*Symptom, error) {
	var s Symptom
	err := row.Scan(&s.ID, &s.UserID, &s.SymptomName, &s.Severity, &s.Description,
		&s.Location, &s.Duration, &s.TimeOfDay, &s.Triggers, &s.Medications,
		&s.Notes, &s.DateRecorded, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSymptoms(rows pgx.Rows) ([]*Symptom, error) {
	defer rows.Close()
	var items []*Symptom
	for rows.Next() {
		s, err := scanSymptom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, s *Symptom) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO symptoms (user_id, symptom_name, severity, description,
			location, duration, time_of_day, triggers, medications, notes,
			date_recorded)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		s.UserID, s.SymptomName, s.Severity, s.Description, s.Location,
		s.Duration, s.TimeOfDay, s.Triggers, s.Medications, s.Notes,
		s.DateRecorded,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *repoPG) List(ctx context.Context, userID string, limit int) ([]*Symptom, error) {
	q := `SELECT ` + symptomCols + ` FROM symptoms WHERE user_id = $1 ` + symptomOrder
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.pool.Query(ctx, q+` LIMIT $2`, userID, limit)
	} else {
		rows, err = r.pool.Query(ctx, q, userID)
	}
	if err != nil {
		return nil, err
	}
	return collectSymptoms(rows)
}

func (r *repoPG) GetByID(ctx context.Context, id int, userID string) (*Symptom, error) {
	return scanSymptom(r.pool.QueryRow(ctx,
		`SELECT `+symptomCols+` FROM symptoms WHERE id = $1 AND user_id = $2`,
		id, userID))
}

func (r *repoPG) Search(ctx context.Context, userID, query string) ([]*Symptom, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+symptomCols+` FROM symptoms
		WHERE user_id = $1 AND symptom_name ILIKE $2 `+symptomOrder,
		userID, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	return collectSymptoms(rows)
}

func (r *repoPG) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*Symptom, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+symptomCols+` FROM symptoms
		WHERE user_id = $1 AND date_recorded >= $2 AND date_recorded <= $3
		`+symptomOrder, userID, start, end)
	if err != nil {
		return nil, err
	}
	return collectSymptoms(rows)
}

func (r *repoPG) Update(ctx context.Context, id int, userID string, upd *Update) (*Symptom, error) {
	return scanSymptom(r.pool.QueryRow(ctx, `
		UPDATE symptoms SET
			symptom_name = COALESCE($3, symptom_name),
			severity = COALESCE($4, severity),
			description = COALESCE($5, description),
			location = COALESCE($6, location),
			duration = COALESCE($7, duration),
			time_of_day = COALESCE($8, time_of_day),
			triggers = COALESCE($9, triggers),
			medications = COALESCE($10, medications),
			notes = COALESCE($11, notes),
			date_recorded = COALESCE($12, date_recorded),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+symptomCols,
		id, userID, upd.SymptomName, upd.Severity, upd.Description,
		upd.Location, upd.Duration, upd.TimeOfDay, upd.Triggers,
		upd.Medications, upd.Notes, upd.DateRecorded))
}

func (r *repoPG) Delete(ctx context.Context, id int, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM symptoms WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
