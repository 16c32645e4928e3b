package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tunehub/backend/internal/handler/middleware"
	"tunehub/backend/internal/service"
	"tunehub/backend/pkg/response"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Check answers 200 for callers that passed the admin guard.
func (h *AdminHandler) Check(c *gin.Context) {
	response.Success(c, gin.H{"admin": true})
}

// CreateSong stores an uploaded song. Expects staged audioFile and imageFile
// parts plus title, artist, duration and an optional albumId.
func (h *AdminHandler) CreateSong(c *gin.Context) {
	upload := middleware.StagedFromContext(c)
	defer upload.Release()

	duration, err := strconv.Atoi(strings.TrimSpace(upload.Value("duration")))
	if err != nil {
		response.BadRequest(c, "invalid duration")
		return
	}
	in := service.SongInput{
		Title:    upload.Value("title"),
		Artist:   upload.Value("artist"),
		Duration: duration,
		Audio:    upload.File("audioFile"),
		Image:    upload.File("imageFile"),
	}
	if raw := strings.TrimSpace(upload.Value("albumId")); raw != "" {
		albumID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid albumId")
			return
		}
		in.AlbumID = &albumID
	}

	song, err := h.adminService.CreateSong(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, song)
}

func (h *AdminHandler) DeleteSong(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.DeleteSong(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Song deleted successfully"})
}

// CreateAlbum stores an album from a staged imageFile plus title, artist and
// releaseYear.
func (h *AdminHandler) CreateAlbum(c *gin.Context) {
	upload := middleware.StagedFromContext(c)
	defer upload.Release()

	year, err := strconv.Atoi(strings.TrimSpace(upload.Value("releaseYear")))
	if err != nil {
		response.BadRequest(c, "invalid releaseYear")
		return
	}
	album, err := h.adminService.CreateAlbum(c.Request.Context(), service.AlbumInput{
		Title:       upload.Value("title"),
		Artist:      upload.Value("artist"),
		ReleaseYear: year,
		Image:       upload.File("imageFile"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, album)
}

func (h *AdminHandler) DeleteAlbum(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.DeleteAlbum(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Album deleted successfully"})
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFile):
		response.BadRequest(c, "Please upload all files")
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownAlbum):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
	}
}
