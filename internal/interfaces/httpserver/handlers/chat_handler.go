package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/infrastructure/auth"
	"chat-api/internal/interfaces/httpserver/requests"
	"chat-api/internal/interfaces/httpserver/responses"
	"chat-api/internal/utils/platformerrors"
)

// ChatHandler exposes HTTP entrypoints for the conversation flows. Every
// operation returns the full session snapshot so clients stay in sync.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// List handles GET /v1/conversations
func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "not signed in")
		return
	}

	view, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.FromView(view))
}

// Create handles POST /v1/conversations
func (h *ChatHandler) Create(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "not signed in")
		return
	}

	view, err := h.service.NewConversation(c.Request.Context(), userID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, responses.FromView(view))
}

// Select handles GET /v1/conversations/:conversation_id
func (h *ChatHandler) Select(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "not signed in")
		return
	}

	view, err := h.service.SelectConversation(c.Request.Context(), userID, c.Param("conversation_id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.FromView(view))
}

// SendMessage handles POST /v1/conversations/:conversation_id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "not signed in")
		return
	}

	var req requests.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "text is required")
		return
	}

	view, err := h.service.SendMessage(c.Request.Context(), userID, c.Param("conversation_id"), req.Text)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.FromView(view))
}

// Clear handles DELETE /v1/conversations
func (h *ChatHandler) Clear(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "not signed in")
		return
	}

	view, err := h.service.ClearConversations(c.Request.Context(), userID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.FromView(view))
}
