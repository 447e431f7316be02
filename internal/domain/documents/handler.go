package documents

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medivault/api/internal/platform/auth"
	"github.com/medivault/api/internal/platform/filestore"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/documents", h.ListDocuments)
	api.GET("/documents/search", h.SearchDocuments)
	api.GET("/documents/type/:type", h.ListDocumentsByType)
	api.GET("/documents/:id", h.GetDocument)
	api.POST("/documents", h.UploadDocument)
	api.DELETE("/documents/:id", h.DeleteDocument)
	api.GET("/files/:filename", h.ServeFile)
}

func (h *Handler) ListDocuments(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	docs, err := h.svc.List(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch documents")
	}
	if docs == nil {
		docs = []*Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) SearchDocuments(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	docs, err := h.svc.Search(c.Request().Context(), userID, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search documents")
	}
	if docs == nil {
		docs = []*Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) ListDocumentsByType(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	docs, err := h.svc.ListByType(c.Request().Context(), userID, c.Param("type"))
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid document data",
			"errors":  vErr.Fields,
		})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch documents")
	}
	if docs == nil {
		docs = []*Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) GetDocument(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	doc, err := h.svc.Get(c.Request().Context(), id, userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch document")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) UploadDocument(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
	}
	defer src.Close()

	meta := Document{
		Title:        c.FormValue("title"),
		DocumentType: c.FormValue("documentType"),
		Description:  optional(c.FormValue("description")),
		DoctorName:   optional(c.FormValue("doctorName")),
		FacilityName: optional(c.FormValue("facilityName")),
	}
	if v := c.FormValue("documentDate"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"message": "Invalid document data",
				"errors":  map[string]string{"documentDate": "invalid date format"},
			})
		}
		meta.DocumentDate = date
	}
	if v := c.FormValue("tags"); v != "" {
		if err := json.Unmarshal([]byte(v), &meta.Tags); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"message": "Invalid document data",
				"errors":  map[string]string{"tags": "tags must be a JSON array"},
			})
		}
	}

	doc, err := h.svc.Upload(c.Request().Context(), userID, UploadInput{
		OriginalName: file.Filename,
		ContentType:  file.Header.Get("Content-Type"),
		Content:      src,
		Metadata:     meta,
	})
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.Is(err, filestore.ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, filestore.ErrInvalidContentType):
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid file type")
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"message": "Invalid document data",
				"errors":  vErr.Fields,
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload document")
		}
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	err = h.svc.Delete(c.Request().Context(), id, userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete document")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

// ServeFile streams a stored file back to its owner. A filename the caller
// does not own yields the same 404 as a missing one.
func (h *Handler) ServeFile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	rc, doc, err := h.svc.OpenFile(c.Request().Context(), c.Param("filename"), userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to serve file")
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, doc.MimeType, rc)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
