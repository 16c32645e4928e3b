package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"tunehub/backend/internal/model"
	"tunehub/backend/internal/service"
	"tunehub/backend/pkg/response"
)

type SongHandler struct {
	catalog service.CatalogService
}

func NewSongHandler(catalog service.CatalogService) *SongHandler {
	return &SongHandler{catalog: catalog}
}

func (h *SongHandler) List(c *gin.Context) {
	h.respond(c, h.catalog.ListSongs)
}

func (h *SongHandler) Featured(c *gin.Context) {
	h.respond(c, h.catalog.FeaturedSongs)
}

func (h *SongHandler) MadeForYou(c *gin.Context) {
	h.respond(c, h.catalog.MadeForYouSongs)
}

func (h *SongHandler) Trending(c *gin.Context) {
	h.respond(c, h.catalog.TrendingSongs)
}

func (h *SongHandler) respond(c *gin.Context, fetch func(context.Context) ([]model.Song, error)) {
	songs, err := fetch(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, songs)
}
