package handlers

import (
	"net/http"

	"github.com/journalme/backend/internal/services"
	"github.com/journalme/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// JournalHandler handles journal entry HTTP requests
type JournalHandler struct {
	journals *services.JournalService
	store    *storage.DiskStore
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journals *services.JournalService, store *storage.DiskStore) *JournalHandler {
	return &JournalHandler{journals: journals, store: store}
}

// RegisterJournalRoutes registers journal-related routes
func (h *JournalHandler) RegisterJournalRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
}

// Create creates a journal entry from a multipart form with optional audio,
// image and video attachments
func (h *JournalHandler) Create(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	text := c.FormValue("text")
	isPublic := c.FormValue("isPublic") == "true"

	var attachments services.EntryAttachments
	fields := []struct {
		name string
		dest *string
	}{
		{"audio", &attachments.AudioPath},
		{"image", &attachments.ImagePath},
		{"video", &attachments.VideoPath},
	}
	for _, f := range fields {
		fileHeader, err := c.FormFile(f.name)
		if err != nil {
			continue // field absent
		}
		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid uploaded file")
		}
		name, err := h.store.Save(src, fileHeader.Filename)
		src.Close()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store uploaded file")
		}
		*f.dest = name
	}

	entry, err := h.journals.Create(c.Request().Context(), userID, text, isPublic, attachments)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// List returns the caller's own entries, newest first
func (h *JournalHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	entries, err := h.journals.ListMine(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Get returns a single entry if the caller owns it or it is public
func (h *JournalHandler) Get(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	entry, err := h.journals.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete removes the caller's entry along with its stored media
func (h *JournalHandler) Delete(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.journals.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
