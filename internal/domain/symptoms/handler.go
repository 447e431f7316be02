package symptoms

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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
	api.GET("/symptoms", h.ListSymptoms)
	api.POST("/symptoms", h.CreateSymptom)
	api.GET("/symptoms/search", h.SearchSymptoms)
	api.GET("/symptoms/range", h.ListSymptomsByDateRange)
	api.GET("/symptoms/:id", h.GetSymptom)
	api.PUT("/symptoms/:id", h.UpdateSymptom)
	api.DELETE("/symptoms/:id", h.DeleteSymptom)
}

// validationResponse writes the 400 body for a *ValidationError and reports
// whether err was one. Any other error falls through to the caller's 500.
func validationResponse(c echo.Context, err error) (bool, error) {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return false, nil
	}
	return true, c.JSON(http.StatusBadRequest, map[string]interface{}{
		"message": "Invalid symptom data",
		"errors":  vErr.Fields,
	})
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	items, err := h.svc.List(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch symptoms")
	}
	if items == nil {
		items = []*Symptom{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateSymptom(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var sym Symptom
	if err := c.Bind(&sym); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid symptom data")
	}
	sym.UserID = userID
	if err := h.svc.Create(c.Request().Context(), &sym); err != nil {
		if handled, jsonErr := validationResponse(c, err); handled {
			return jsonErr
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create symptom")
	}
	return c.JSON(http.StatusCreated, sym)
}

func (h *Handler) GetSymptom(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Symptom not found")
	}

	sym, err := h.svc.Get(c.Request().Context(), id, userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Symptom not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch symptom")
	}
	return c.JSON(http.StatusOK, sym)
}

func (h *Handler) SearchSymptoms(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	items, err := h.svc.Search(c.Request().Context(), userID, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search symptoms")
	}
	if items == nil {
		items = []*Symptom{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListSymptomsByDateRange(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	start, err := time.Parse("2006-01-02", c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid start date")
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid end date")
	}

	items, err := h.svc.ListByDateRange(c.Request().Context(), userID, start, end)
	if err != nil {
		if handled, jsonErr := validationResponse(c, err); handled {
			return jsonErr
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch symptoms")
	}
	if items == nil {
		items = []*Symptom{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateSymptom(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Symptom not found")
	}

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid symptom data")
	}

	sym, err := h.svc.Update(c.Request().Context(), id, userID, &upd)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Symptom not found")
	}
	if err != nil {
		if handled, jsonErr := validationResponse(c, err); handled {
			return jsonErr
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update symptom")
	}
	return c.JSON(http.StatusOK, sym)
}

func (h *Handler) DeleteSymptom(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Symptom not found")
	}

	err = h.svc.Delete(c.Request().Context(), id, userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Symptom not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete symptom")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Symptom deleted successfully"})
}
