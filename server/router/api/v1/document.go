package v1

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	apperr "github.com/synthesistalk/synthesistalk/internal/errors"
)

// maxUploadBytes caps one uploaded document.
const maxUploadBytes = 32 << 20 // 32 MiB

// UploadDocument registers an uploaded file as a new collection.
// POST /api/v1/documents (multipart, field "file")
func (s *APIV1Service) UploadDocument(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot read uploaded file"})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot read uploaded file"})
	}

	kind := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	result, err := s.LibraryService.CreateCollection(c.Request().Context(), fileHeader.Filename, kind, data)
	if err != nil {
		if apperr.IsCode(err, apperr.ErrCodeInvalidArgument) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// ListCollections returns the registered collection IDs.
// GET /api/v1/documents
func (s *APIV1Service) ListCollections(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"collections": s.LibraryService.ListCollections(c.Request().Context()),
	})
}

// DeleteCollection removes a collection and its vector index.
// DELETE /api/v1/documents/:collectionID
func (s *APIV1Service) DeleteCollection(c echo.Context) error {
	collectionID := c.Param("collectionID")

	if err := s.LibraryService.DeleteCollection(c.Request().Context(), collectionID); err != nil {
		if apperr.IsCode(err, apperr.ErrCodeNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
