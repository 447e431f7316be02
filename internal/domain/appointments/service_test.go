package appointments

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type mockRepo struct {
	items  map[int]*Appointment
	nextID int

	createErr error
	updateErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int]*Appointment), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) List(_ context.Context, userID string, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AppointmentDate.Before(result[j].AppointmentDate)
	})
	total := len(result)
	if offset > len(result) {
		offset = len(result)
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockRepo) GetByID(_ context.Context, id int, userID string) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok || a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) (*Appointment, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	existing, ok := m.items[a.ID]
	if !ok || existing.UserID != a.UserID {
		return nil, ErrNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now()
	cp := *a
	m.items[a.ID] = &cp
	return &cp, nil
}

func (m *mockRepo) Delete(_ context.Context, id int, userID string) (bool, error) {
	a, ok := m.items[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func validAppointment(userID string) *Appointment {
	return &Appointment{
		UserID:          userID,
		DoctorName:      "Dr. Chen",
		AppointmentDate: time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
	}
}

func TestCreateAppointmentDefaultsStatus(t *testing.T) {
	svc := NewService(newMockRepo())

	appt := validAppointment("u1")
	if err := svc.Create(context.Background(), appt); err != nil {
		t.Fatalf("create: %v", err)
	}
	if appt.Status != "scheduled" {
		t.Errorf("status = %q, want scheduled", appt.Status)
	}
}

func TestCreateAppointmentRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo())

	appt := validAppointment("u1")
	appt.Status = "postponed"
	err := svc.Create(context.Background(), appt)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %T, want *ValidationError", err)
	}
	if _, ok := vErr.Fields["status"]; !ok {
		t.Errorf("fields = %v, want status entry", vErr.Fields)
	}
}

func TestCreateAppointmentRequiredFields(t *testing.T) {
	svc := NewService(newMockRepo())

	appt := validAppointment("u1")
	appt.DoctorName = ""
	if err := svc.Create(context.Background(), appt); err == nil {
		t.Error("missing doctorName should be rejected")
	}

	appt = validAppointment("u1")
	appt.AppointmentDate = time.Time{}
	if err := svc.Create(context.Background(), appt); err == nil {
		t.Error("missing appointmentDate should be rejected")
	}
}

func TestListOrdersByDateAscending(t *testing.T) {
	svc := NewService(newMockRepo())

	later := validAppointment("u1")
	later.AppointmentDate = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	earlier := validAppointment("u1")
	earlier.AppointmentDate = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := svc.Create(context.Background(), later); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Create(context.Background(), earlier); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, total, err := svc.List(context.Background(), "u1", 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d, len = %d", total, len(items))
	}
	if !items[0].AppointmentDate.Before(items[1].AppointmentDate) {
		t.Error("appointments not ordered by date ascending")
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	svc := NewService(newMockRepo())
	appt := validAppointment("userA")
	if err := svc.Create(context.Background(), appt); err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := validAppointment("userB")
	if _, err := svc.Update(context.Background(), appt.ID, "userB", upd); err != ErrNotFound {
		t.Errorf("cross-user update: got %v, want ErrNotFound", err)
	}

	upd = validAppointment("userA")
	upd.Status = "completed"
	got, err := svc.Update(context.Background(), appt.ID, "userA", upd)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("status = %q", got.Status)
	}
}

func TestDeleteAppointmentNotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	appt := validAppointment("u1")
	if err := svc.Create(context.Background(), appt); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), appt.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), appt.ID, "u1"); err != ErrNotFound {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
