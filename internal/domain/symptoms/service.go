package symptoms

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sym *Symptom) error {
	if sym.Triggers == nil {
		sym.Triggers = []string{}
	}
	if sym.Medications == nil {
		sym.Medications = []string{}
	}
	if err := sym.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, sym)
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Symptom, error) {
	return s.repo.List(ctx, userID, limit)
}

func (s *Service) Get(ctx context.Context, id int, userID string) (*Symptom, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *Service) Search(ctx context.Context, userID, query string) ([]*Symptom, error) {
	return s.repo.Search(ctx, userID, query)
}

func (s *Service) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*Symptom, error) {
	if end.Before(start) {
		return nil, &ValidationError{Fields: map[string]string{
			"end": "end date must not be before start date",
		}}
	}
	return s.repo.ListByDateRange(ctx, userID, start, end)
}

func (s *Service) Update(ctx context.Context, id int, userID string, upd *Update) (*Symptom, error) {
	fields := make(map[string]string)
	if upd.SymptomName != nil && *upd.SymptomName == "" {
		fields["symptomName"] = "symptomName cannot be empty"
	}
	if upd.Severity != nil && !validSeverity(*upd.Severity) {
		fields["severity"] = "severity must be between 1 and 10"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return s.repo.Update(ctx, id, userID, upd)
}

func (s *Service) Delete(ctx context.Context, id int, userID string) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("deleting symptom: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
