package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synthesistalk/synthesistalk/server/service/chat"
)

// Chat handles one conversation turn.
// POST /api/v1/chat
func (s *APIV1Service) Chat(c echo.Context) error {
	var req chat.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if req.ConversationID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "conversation_id is required"})
	}

	resp, err := s.ChatService.ProcessMessage(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// ListMessages returns the conversation history in order.
// GET /api/v1/conversations/:conversationID/messages
func (s *APIV1Service) ListMessages(c echo.Context) error {
	conversationID := c.Param("conversationID")

	msgs, err := s.Conversations.List(c.Request().Context(), conversationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        msgs,
	})
}
