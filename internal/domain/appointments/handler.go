package appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medivault/api/internal/platform/auth"
	"github.com/medivault/api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch appointments")
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// validationResponse writes the 400 body for a *ValidationError and reports
// whether err was one. Any other error falls through to the caller's 500.
func validationResponse(c echo.Context, err error) (bool, error) {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return false, nil
	}
	return true, c.JSON(http.StatusBadRequest, map[string]interface{}{
		"message": "Invalid appointment data",
		"errors":  vErr.Fields,
	})
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var appt Appointment
	if err := c.Bind(&appt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid appointment data")
	}
	appt.UserID = userID
	if err := h.svc.Create(c.Request().Context(), &appt); err != nil {
		if handled, jsonErr := validationResponse(c, err); handled {
			return jsonErr
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create appointment")
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}

	appt, err := h.svc.Get(c.Request().Context(), id, userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch appointment")
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}

	var appt Appointment
	if err := c.Bind(&appt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid appointment data")
	}

	updated, err := h.svc.Update(c.Request().Context(), id, userID, &appt)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}
	if err != nil {
		if handled, jsonErr := validationResponse(c, err); handled {
			return jsonErr
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update appointment")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}

	err = h.svc.Delete(c.Request().Context(), id, userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete appointment")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment deleted successfully"})
}
