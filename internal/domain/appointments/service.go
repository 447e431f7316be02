package appointments

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

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if err := a.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int, userID string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// Update replaces the appointment's fields. The id and owner come from the
// request, never from the payload.
func (s *Service) Update(ctx context.Context, id int, userID string, a *Appointment) (*Appointment, error) {
	a.ID = id
	a.UserID = userID
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id int, userID string) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
