package symptoms

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Symptom is a self-reported health event.
type Symptom struct {
	ID           int       `json:"id"`
	UserID       string    `json:"userId"`
	SymptomName  string    `json:"symptomName"`
	Severity     int       `json:"severity"`
	Description  *string   `json:"description"`
	Location     *string   `json:"location"`
	Duration     *string   `json:"duration"`
	TimeOfDay    *string   `json:"timeOfDay"`
	Triggers     []string  `json:"triggers"`
	Medications  []string  `json:"medications"`
	Notes        *string   `json:"notes"`
	DateRecorded time.Time `json:"dateRecorded"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Update carries a partial update. Nil fields are left unchanged.
type Update struct {
	SymptomName  *string    `json:"symptomName"`
	Severity     *int       `json:"severity"`
	Description  *string    `json:"description"`
	Location     *string    `json:"location"`
	Duration     *string    `json:"duration"`
	TimeOfDay    *string    `json:"timeOfDay"`
	Triggers     []string   `json:"triggers"`
	Medications  []string   `json:"medications"`
	Notes        *string    `json:"notes"`
	DateRecorded *time.Time `json:"dateRecorded"`
}

func validSeverity(s int) bool { return s >= 1 && s <= 10 }

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid symptom"
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
	return "invalid symptom: " + strings.Join(parts, "; ")
}

// Validate checks the fields required to record a symptom. It returns a
// *ValidationError listing every failing field.
func (s *Symptom) Validate() error {
	fields := make(map[string]string)
	if s.SymptomName == "" {
		fields["symptomName"] = "symptomName is required"
	}
	if !validSeverity(s.Severity) {
		fields["severity"] = "severity must be between 1 and 10"
	}
	if s.DateRecorded.IsZero() {
		fields["dateRecorded"] = "dateRecorded is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
