package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tunehub/backend/internal/service"
	"tunehub/backend/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type CallbackRequest struct {
	ID        string `json:"id" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

// Callback stores the profile the identity provider handed to the frontend.
func (h *AuthHandler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	_, err := h.authService.SyncProfile(c.Request.Context(), service.ProfileInput{
		ExternalID: req.ID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingSubject) {
			response.BadRequest(c, err.Error())
			return
		}
		_ = c.Error(err)
		return
	}

	response.Success(c, gin.H{"success": true})
}
