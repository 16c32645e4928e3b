package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tunehub/backend/internal/service"
	"tunehub/backend/pkg/response"
)

type UserHandler struct {
	chatService service.ChatService
}

func NewUserHandler(chatService service.ChatService) *UserHandler {
	return &UserHandler{chatService: chatService}
}

// List returns every user except the caller.
func (h *UserHandler) List(c *gin.Context) {
	me, err := callerID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized - you must be logged in")
		return
	}
	users, err := h.chatService.ListContacts(c.Request.Context(), me)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, users)
}

// Messages returns the conversation between the caller and :userId, oldest first.
func (h *UserHandler) Messages(c *gin.Context) {
	me, err := callerID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized - you must be logged in")
		return
	}
	messages, err := h.chatService.Conversation(c.Request.Context(), me, c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(c, "invalid userId")
			return
		}
		_ = c.Error(err)
		return
	}
	response.Success(c, messages)
}
