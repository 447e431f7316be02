package appointments

import (
	"context"
	"errors"
)

// ErrNotFound covers both a nonexistent id and a row owned by someone else.
var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	// List returns a page of the caller's appointments ordered by
	// appointment_date ascending, plus the total count.
	List(ctx context.Context, userID string, limit, offset int) ([]*Appointment, int, error)
	GetByID(ctx context.Context, id int, userID string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id int, userID string) (bool, error)
}
