package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func testHandler(gotUserID *string) echo.HandlerFunc {
	return func(c echo.Context) error {
		*gotUserID = UserIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}
}

func TestMiddlewareSessionCookie(t *testing.T) {
	store := NewMemorySessionStore()
	sess := NewSession("user-1", time.Hour)
	if err := store.Put(context.Background(), sess); err != nil {
		t.Fatalf("put session: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.SID})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	mw := Middleware(Config{Sessions: store, SigningKey: []byte("secret")})
	if err := mw(testHandler(&gotUserID))(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUserID != "user-1" {
		t.Errorf("user id = %q, want user-1", gotUserID)
	}
}

func TestMiddlewareExpiredSession(t *testing.T) {
	store := NewMemorySessionStore()
	sess := NewSession("user-1", -time.Minute)
	if err := store.Put(context.Background(), sess); err != nil {
		t.Fatalf("put session: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.SID})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	mw := Middleware(Config{Sessions: store, SigningKey: []byte("secret")})
	err := mw(testHandler(&gotUserID))(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddlewareBearerToken(t *testing.T) {
	key := []byte("test-signing-key")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	mw := Middleware(Config{Sessions: NewMemorySessionStore(), SigningKey: key})
	if err := mw(testHandler(&gotUserID))(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUserID != "user-2" {
		t.Errorf("user id = %q, want user-2", gotUserID)
	}
}

func TestMiddlewareMissingCredentials(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	mw := Middleware(Config{Sessions: NewMemorySessionStore(), SigningKey: []byte("secret")})
	err := mw(testHandler(&gotUserID))(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMemorySessionStoreDeleteExpired(t *testing.T) {
	store := NewMemorySessionStore()
	_ = store.Put(context.Background(), NewSession("a", -time.Minute))
	_ = store.Put(context.Background(), NewSession("b", time.Hour))

	n, err := store.DeleteExpired(context.Background())
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
}
