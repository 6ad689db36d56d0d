package handlers

import (
	"net/http"
	"strings"

	"hukuk-asistani/models"
	"hukuk-asistani/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles the legal question endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest is the body of POST /api/chat. Message is a pointer so a
// missing field and a non-string value are both rejected.
type ChatRequest struct {
	Message             *string                       `json:"message"`
	ConversationHistory []models.ConversationExchange `json:"conversationHistory"`
}

// Chat handles POST /api/chat. Model failures are answered with 200 and an
// error-flagged payload.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		respondError(c, http.StatusBadRequest, "Geçerli bir mesaj gereklidir", nil)
		return
	}

	answer := h.chatService.Answer(c.Request.Context(), *req.Message, req.ConversationHistory)
	c.JSON(http.StatusOK, answer)
}

// LegalReference handles GET /api/legal-reference/:reference
func (h *ChatHandler) LegalReference(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		respondError(c, http.StatusBadRequest, "Geçerli bir referans gereklidir", nil)
		return
	}
	c.JSON(http.StatusOK, h.chatService.ReferenceDetails(reference))
}
