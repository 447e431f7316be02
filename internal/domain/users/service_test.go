package users

import (
	"context"
	"testing"
	"time"
)

type mockRepo struct {
	items map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]*User)}
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) Upsert(_ context.Context, in *UpsertUser) (*User, error) {
	now := time.Now()
	if existing, ok := m.items[in.ID]; ok {
		existing.Email = in.Email
		existing.FirstName = in.FirstName
		existing.LastName = in.LastName
		existing.ProfileImageURL = in.ProfileImageURL
		existing.UpdatedAt = now
		return existing, nil
	}
	u := &User{
		ID: in.ID, Email: in.Email, FirstName: in.FirstName,
		LastName: in.LastName, ProfileImageURL: in.ProfileImageURL,
		CreatedAt: now, UpdatedAt: now,
	}
	m.items[in.ID] = u
	return u, nil
}

func strPtr(s string) *string { return &s }

func TestUpsertCreatesThenUpdates(t *testing.T) {
	svc := NewService(newMockRepo())

	created, err := svc.UpsertUser(context.Background(), &UpsertUser{ID: "u1", Email: strPtr("a@example.com")})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.ID != "u1" || *created.Email != "a@example.com" {
		t.Errorf("created = %+v", created)
	}

	updated, err := svc.UpsertUser(context.Background(), &UpsertUser{ID: "u1", Email: strPtr("b@example.com"), FirstName: strPtr("Ada")})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if *updated.Email != "b@example.com" || *updated.FirstName != "Ada" {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("upsert should preserve created_at")
	}
}

func TestUpsertRequiresID(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.UpsertUser(context.Background(), &UpsertUser{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.GetUser(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
