package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "medivault.sid"

type Claims struct {
	jwt.RegisteredClaims
}

type Config struct {
	// SigningKey verifies HS256 bearer tokens.
	SigningKey []byte
	Sessions   SessionStore
}

// Middleware authenticates requests via the session cookie, falling back
// to an HS256 bearer token. Unauthenticated requests get 401.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				sess, err := cfg.Sessions.Get(c.Request().Context(), cookie.Value)
				if err == nil && sess.Data.UserID != "" {
					return next(withUserID(c, sess.Data.UserID))
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.SigningKey, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			return next(withUserID(c, claims.Subject))
		}
	}
}

// DevAuthMiddleware is a permissive middleware for development that treats
// unauthenticated requests as a fixed local user.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(withUserID(c, "dev-user"))
		}
	}
}

func withUserID(c echo.Context, userID string) echo.Context {
	ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
	return c
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}
