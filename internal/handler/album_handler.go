package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tunehub/backend/internal/service"
	"tunehub/backend/pkg/response"
)

type AlbumHandler struct {
	catalog service.CatalogService
}

func NewAlbumHandler(catalog service.CatalogService) *AlbumHandler {
	return &AlbumHandler{catalog: catalog}
}

func (h *AlbumHandler) List(c *gin.Context) {
	albums, err := h.catalog.ListAlbums(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, albums)
}

// Get returns one album with its songs.
func (h *AlbumHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "albumId")
	if !ok {
		return
	}
	album, err := h.catalog.GetAlbum(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "Album not found")
			return
		}
		_ = c.Error(err)
		return
	}
	response.Success(c, album)
}
