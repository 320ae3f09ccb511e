package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planora/planora/internal/server/middleware"
	"github.com/planora/planora/internal/service"
)

// ImageHandler serves note image upload and management endpoints.
type ImageHandler struct {
	images *service.ImageService
}

func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload stores a multipart image under the note's blob prefix.
func (h *ImageHandler) Upload(c *gin.Context) {
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image"})
		return
	}
	defer src.Close()

	image, err := h.images.Upload(c.Request.Context(), middleware.Owner(c), noteID, service.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

// List returns the note's images.
func (h *ImageHandler) List(c *gin.Context) {
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	images, err := h.images.List(c.Request.Context(), middleware.Owner(c), noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// ListAll returns every image across the owner's notes.
func (h *ImageHandler) ListAll(c *gin.Context) {
	images, err := h.images.ListAll(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.images.Delete(c.Request.Context(), middleware.Owner(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
