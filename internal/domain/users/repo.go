package users

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no user exists with the requested id.
var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// Upsert inserts the user or, when the id already exists, merges the
	// profile fields and refreshes updated_at.
	Upsert(ctx context.Context, u *UpsertUser) (*User, error)
}
