package symptoms

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound covers both a nonexistent id and a row owned by someone else.
var ErrNotFound = errors.New("symptom not found")

type Repository interface {
	Create(ctx context.Context, s *Symptom) error
	// List returns the caller's symptoms ordered by date_recorded then
	// created_at, newest first. limit <= 0 means no cap.
	List(ctx context.Context, userID string, limit int) ([]*Symptom, error)
	GetByID(ctx context.Context, id int, userID string) (*Symptom, error)
	// Search matches the query case-insensitively against symptom_name.
	Search(ctx context.Context, userID, query string) ([]*Symptom, error)
	// ListByDateRange returns symptoms with date_recorded within
	// [start, end], both bounds inclusive.
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*Symptom, error)
	// Update applies only the non-nil fields and refreshes updated_at.
	Update(ctx context.Context, id int, userID string, upd *Update) (*Symptom, error)
	// Delete removes the row iff owned and reports whether a row was removed.
	Delete(ctx context.Context, id int, userID string) (bool, error)
}
