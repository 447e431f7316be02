package documents

import (
	"context"
	"errors"
)

// ErrNotFound covers both a nonexistent id and a row owned by someone else.
// The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("document not found")

type Repository interface {
	Create(ctx context.Context, d *Document) error
	// List returns the caller's documents ordered by document_date then
	// created_at, newest first. limit <= 0 means no cap.
	List(ctx context.Context, userID string, limit int) ([]*Document, error)
	GetByID(ctx context.Context, id int, userID string) (*Document, error)
	// GetByStoredName finds the caller's document by its stored file name.
	GetByStoredName(ctx context.Context, storedName, userID string) (*Document, error)
	// Search matches the query case-insensitively against title,
	// description, doctor_name, and facility_name.
	Search(ctx context.Context, userID, query string) ([]*Document, error)
	ListByType(ctx context.Context, userID, documentType string) ([]*Document, error)
	// Delete removes the row iff owned and reports whether a row was removed.
	Delete(ctx context.Context, id int, userID string) (bool, error)
}
