package waitlist

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the waitlist route. It is public; no auth gate.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/waitlist", h.Join)
}

func (h *Handler) Join(c echo.Context) error {
	var signup Signup
	if err := c.Bind(&signup); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	signup.Email = strings.TrimSpace(signup.Email)
	signup.FirstName = strings.TrimSpace(signup.FirstName)

	if err := signup.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Join(c.Request().Context(), &signup); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to join waitlist")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully joined the waitlist"})
}
