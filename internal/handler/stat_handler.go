package handler

import (
	"github.com/gin-gonic/gin"

	"tunehub/backend/internal/service"
	"tunehub/backend/pkg/response"
)

type StatHandler struct {
	statService service.StatService
}

func NewStatHandler(statService service.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) Totals(c *gin.Context) {
	stats, err := h.statService.Totals(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, stats)
}
