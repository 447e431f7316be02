package appointments

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Appointment is a scheduled visit with a provider.
type Appointment struct {
	ID              int       `json:"id"`
	UserID          string    `json:"userId"`
	DoctorName      string    `json:"doctorName"`
	Specialty       *string   `json:"specialty"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Reason          *string   `json:"reason"`
	Location        *string   `json:"location"`
	Notes           *string   `json:"notes"`
	Status          string    `json:"status"`
	ReminderSent    bool      `json:"reminderSent"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

var validStatuses = map[string]bool{
	"scheduled": true,
	"completed": true,
	"cancelled": true,
}

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid appointment"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid appointment: " + strings.Join(parts, "; ")
}

// Validate checks the fields required to book an appointment. It returns a
// *ValidationError listing every failing field.
func (a *Appointment) Validate() error {
	fields := make(map[string]string)
	if a.DoctorName == "" {
		fields["doctorName"] = "doctorName is required"
	}
	if a.AppointmentDate.IsZero() {
		fields["appointmentDate"] = "appointmentDate is required"
	}
	if !validStatuses[a.Status] {
		fields["status"] = fmt.Sprintf("invalid status: %s", a.Status)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
