package users

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medivault/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/auth/user", h.GetCurrentUser)
}

// GetCurrentUser returns the authenticated user's profile.
func (h *Handler) GetCurrentUser(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	user, err := h.svc.GetUser(c.Request().Context(), userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user)
}
