package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/ids"
	"gymora/api/internal/models"
)

type messageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sentAt"`
}

func toMessageResponse(msg models.ChatMessage) messageResponse {
	return messageResponse{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Body:        msg.Body,
		SentAt:      msg.SentAt,
	}
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

func (h HandlerSet) SendMessage(c *gin.Context) {
	sender, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	recipient, ok := h.conversationPartner(c, sender)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.ChatMessage{
		ID:          ids.New(),
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Body:        req.Body,
		SentAt:      time.Now(),
	}

	if err := h.chat.Create(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send message failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": toMessageResponse(msg)})
}

func (h HandlerSet) ListConversation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	partner, ok := h.conversationPartner(c, user)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	messages, err := h.chat.ListConversation(c.Request.Context(), user.ID, partner.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list conversation failed"})
		return
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, toMessageResponse(msg))
	}
	c.JSON(http.StatusOK, gin.H{"messages": resp})
}

// conversationPartner resolves the :userId param and enforces that chat only
// happens between a trainer and their own member (admins may reach anyone).
// It writes the error response itself when the check fails.
func (h HandlerSet) conversationPartner(c *gin.Context, user models.User) (models.User, bool) {
	partner, err := h.users.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return models.User{}, false
	}

	allowed := false
	switch user.Role {
	case models.UserRoleAdmin:
		allowed = true
	case models.UserRoleTrainer:
		allowed = partner.TrainerID != nil && *partner.TrainerID == user.ID
	default:
		allowed = user.TrainerID != nil && *user.TrainerID == partner.ID
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return models.User{}, false
	}

	return partner, true
}
