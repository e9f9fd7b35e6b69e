package handler

import (
	"net/http"

	"civicreport/backend/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

type messageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) chatID(c *gin.Context) (uint, bool) {
	id, err := lifecycle.ParseID("chatId", c.Param("id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}

func (h *Handler) ListChats(c *gin.Context) {
	chats, err := h.Hub.ListChats(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *Handler) ListMessages(c *gin.Context) {
	id, ok := h.chatID(c)
	if !ok {
		return
	}
	history, err := h.Hub.ListMessages(c.Request.Context(), id, actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// PostMessage sends a message to the other participant of the chat.
func (h *Handler) PostMessage(c *gin.Context) {
	id, ok := h.chatID(c)
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.Hub.SendMessage(c.Request.Context(), id, actorFrom(c).UserID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
