package users

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpsertUser records the profile from a successful authentication.
func (s *Service) UpsertUser(ctx context.Context, u *UpsertUser) (*User, error) {
	if u.ID == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.repo.Upsert(ctx, u)
}
