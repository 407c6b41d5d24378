package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListNotes returns a conversation's notes, optionally filtered by the
// "category" query parameter.
// GET /api/v1/conversations/:conversationID/notes
func (s *APIV1Service) ListNotes(c echo.Context) error {
	conversationID := c.Param("conversationID")
	category := c.QueryParam("category")

	notes, err := s.Notes.List(c.Request().Context(), conversationID, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"notes":           notes,
	})
}

// ListInsights returns a conversation's research insights in append order.
// GET /api/v1/conversations/:conversationID/insights
func (s *APIV1Service) ListInsights(c echo.Context) error {
	conversationID := c.Param("conversationID")

	insights, err := s.Insights.List(c.Request().Context(), conversationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"insights":        insights,
	})
}
