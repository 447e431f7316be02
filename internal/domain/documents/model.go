package documents

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Document is one uploaded file plus its metadata. FilePath is the
// server-generated stored name inside the upload directory; FileName is the
// original name the client sent, kept as metadata only.
type Document struct {
	ID           int       `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	DocumentType string    `json:"documentType"`
	FileName     string    `json:"fileName"`
	FilePath     string    `json:"filePath"`
	FileSize     string    `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	DocumentDate time.Time `json:"documentDate"`
	DoctorName   *string   `json:"doctorName"`
	FacilityName *string   `json:"facilityName"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ValidTypes is the closed set of accepted document types.
var ValidTypes = map[string]bool{
	"lab_result":   true,
	"prescription": true,
	"x_ray":        true,
	"consultation": true,
	"other":        true,
}

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid document"
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
	return "invalid document: " + strings.Join(parts, "; ")
}

// Validate checks the metadata fields required before a document row is
// written. It returns a *ValidationError listing every failing field.
func (d *Document) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(d.Title) == "" {
		fields["title"] = "title is required"
	}
	if d.DocumentType == "" {
		fields["documentType"] = "documentType is required"
	} else if !ValidTypes[d.DocumentType] {
		fields["documentType"] = fmt.Sprintf("invalid document type: %s", d.DocumentType)
	}
	if d.DocumentDate.IsZero() {
		fields["documentDate"] = "documentDate is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
