package symptoms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medivault/api/internal/platform/auth"
)

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID string) echo.Context {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestCreateSymptomHandler(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	body := `{"symptomName":"headache","severity":5,"dateRecorded":"2025-03-10T00:00:00Z","triggers":["stress"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/symptoms", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(echo.New(), req, rec, "u1")

	if err := h.CreateSymptom(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got Symptom
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.UserID != "u1" || got.SymptomName != "headache" {
		t.Errorf("symptom = %+v", got)
	}
	if len(got.Triggers) != 1 || got.Triggers[0] != "stress" {
		t.Errorf("triggers = %v", got.Triggers)
	}
}

func TestCreateSymptomHandlerRejectsSeverity11(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	body := `{"symptomName":"headache","severity":11,"dateRecorded":"2025-03-10T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/symptoms", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(echo.New(), req, rec, "u1")

	if err := h.CreateSymptom(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if _, ok := resp.Errors["severity"]; !ok {
		t.Errorf("errors = %v, want severity entry", resp.Errors)
	}
}

func TestCreateSymptomHandlerStorageFailure(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = errors.New("connection refused")
	h := NewHandler(NewService(repo))

	body := `{"symptomName":"headache","severity":5,"dateRecorded":"2025-03-10T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/symptoms", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(echo.New(), req, rec, "u1")

	err := h.CreateSymptom(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if msg, _ := httpErr.Message.(string); strings.Contains(msg, "connection refused") {
		t.Errorf("internal error leaked to client: %q", msg)
	}
}

func TestUpdateSymptomHandlerStorageFailure(t *testing.T) {
	repo := newMockRepo()
	repo.updateErr = errors.New("connection refused")
	h := NewHandler(NewService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/symptoms/1", strings.NewReader(`{"severity":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.UpdateSymptom(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if msg, _ := httpErr.Message.(string); strings.Contains(msg, "connection refused") {
		t.Errorf("internal error leaked to client: %q", msg)
	}
}

func TestGetSymptomHandlerScopedToOwner(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	h := NewHandler(svc)

	sym := validSymptom("userA")
	if err := svc.Create(context.Background(), sym); err != nil {
		t.Fatalf("create: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/symptoms/1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "userB")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.GetSymptom(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("cross-user get: expected 404, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/symptoms/1", nil)
	rec = httptest.NewRecorder()
	c = authedContext(e, req, rec, "userA")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.GetSymptom(c); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got Symptom
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.ID != 1 || got.SymptomName != "headache" {
		t.Errorf("symptom = %+v", got)
	}
}

func TestListSymptomsByDateRangeHandler(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	h := NewHandler(svc)

	sym := validSymptom("u1")
	if err := svc.Create(context.Background(), sym); err != nil {
		t.Fatalf("create: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/symptoms/range?start=2025-03-01&end=2025-03-31", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1")

	if err := h.ListSymptomsByDateRange(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []Symptom
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want 1", len(items))
	}

	// Malformed dates are 400.
	req = httptest.NewRequest(http.MethodGet, "/api/symptoms/range?start=bogus&end=2025-03-31", nil)
	rec = httptest.NewRecorder()
	c = authedContext(e, req, rec, "u1")
	handlerErr := h.ListSymptomsByDateRange(c)
	httpErr, ok := handlerErr.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", handlerErr)
	}
}

func TestUpdateSymptomHandlerNotFound(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/symptoms/42", strings.NewReader(`{"severity":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1")
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.UpdateSymptom(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestDeleteSymptomHandler(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	h := NewHandler(svc)

	sym := validSymptom("u1")
	if err := svc.Create(context.Background(), sym); err != nil {
		t.Fatalf("create: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/symptoms/1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.DeleteSymptom(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSearchSymptomsHandlerRequiresQuery(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/symptoms/search", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1")

	err := h.SearchSymptoms(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
