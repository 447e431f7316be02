package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const docCols = `id, user_id, title, description, document_type, file_name, file_path,
	file_size, mime_type, document_date, doctor_name, facility_name, tags,
	created_at, updated_at`

const docOrder = `ORDER BY document_date DESC, created_at DESC`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &d.DocumentType,
		&d.FileName, &d.FilePath, &d.FileSize, &d.MimeType, &d.DocumentDate,
		&d.DoctorName, &d.FacilityName, &d.Tags, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDocuments(rows pgx.Rows) ([]*Document, error) {
	defer rows.Close()
	var items []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, d *Document) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO medical_documents (user_id, title, description, document_type,
			file_name, file_path, file_size, mime_type, document_date,
			doctor_name, facility_name, tags)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		d.UserID, d.Title, d.Description, d.DocumentType,
		d.FileName, d.FilePath, d.FileSize, d.MimeType, d.DocumentDate,
		d.DoctorName, d.FacilityName, d.Tags,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) List(ctx context.Context, userID string, limit int) ([]*Document, error) {
	q := `SELECT ` + docCols + ` FROM medical_documents WHERE user_id = $1 ` + docOrder
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
	return collectDocuments(rows)
}

func (r *repoPG) GetByID(ctx context.Context, id int, userID string) (*Document, error) {
	return scanDocument(r.pool.QueryRow(ctx,
		`SELECT `+docCols+` FROM medical_documents WHERE id = $1 AND user_id = $2`,
		id, userID))
}

func (r *repoPG) GetByStoredName(ctx context.Context, storedName, userID string) (*Document, error) {
	return scanDocument(r.pool.QueryRow(ctx,
		`SELECT `+docCols+` FROM medical_documents WHERE file_path = $1 AND user_id = $2`,
		storedName, userID))
}

func (r *repoPG) Search(ctx context.Context, userID, query string) ([]*Document, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT `+docCols+` FROM medical_documents
		WHERE user_id = $1 AND (
			title ILIKE $2 OR description ILIKE $2 OR
			doctor_name ILIKE $2 OR facility_name ILIKE $2)
		`+docOrder, userID, pattern)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *repoPG) ListByType(ctx context.Context, userID, documentType string) ([]*Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+docCols+` FROM medical_documents
		WHERE user_id = $1 AND document_type = $2 `+docOrder,
		userID, documentType)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *repoPG) Delete(ctx context.Context, id int, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM medical_documents WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
