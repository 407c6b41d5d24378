// Package v1 exposes the HTTP API: chat, document upload and the
// read accessors on notes and insights. Handlers stay thin; all
// behavior lives in the services.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/synthesistalk/synthesistalk/internal/profile"
	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/server/service/chat"
	"github.com/synthesistalk/synthesistalk/server/service/library"
)

type APIV1Service struct {
	Profile *profile.Profile

	ChatService    *chat.Service
	LibraryService *library.Service

	Conversations store.ConversationStore
	Notes         store.NoteStore
	Insights      store.InsightStore
}

func NewAPIV1Service(
	prof *profile.Profile,
	chatService *chat.Service,
	libraryService *library.Service,
	conversations store.ConversationStore,
	notes store.NoteStore,
	insights store.InsightStore,
) *APIV1Service {
	return &APIV1Service{
		Profile:        prof,
		ChatService:    chatService,
		LibraryService: libraryService,
		Conversations:  conversations,
		Notes:          notes,
		Insights:       insights,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/chat", s.Chat)

	g.POST("/documents", s.UploadDocument)
	g.GET("/documents", s.ListCollections)
	g.DELETE("/documents/:collectionID", s.DeleteCollection)

	g.GET("/conversations/:conversationID/messages", s.ListMessages)
	g.GET("/conversations/:conversationID/notes", s.ListNotes)
	g.GET("/conversations/:conversationID/insights", s.ListInsights)
}
