package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/autoinspect/inspection-service/internal/service"
)

func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "No photo file provided"})
		return
	}

	ext := filepath.Ext(file.Filename)
	if !isValidImageType(ext) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "Invalid image type. Supported: jpg, jpeg, png, gif"})
		return
	}

	req := &service.UploadPhotoRequest{
		InspectionID: c.Param("id"),
		Side:         entity.PhotoSide(c.PostForm("side")),
		Stage:        entity.PhotoStage(c.PostForm("type")),
		File:         file,
	}

	photo, err := h.photoService.UploadPhoto(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInspectionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Inspection not found"})
		case errors.Is(err, entity.ErrInvalidPhotoSide),
			errors.Is(err, entity.ErrInvalidPhotoStage),
			errors.Is(err, entity.ErrPhotoTooLarge):
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, entity.UploadPhotoResponse{
		ID:     photo.ID,
		Status: "uploaded",
	})
}

func (h *PhotoHandler) GetPhotoFile(c *gin.Context) {
	h.serveFile(c, h.photoService.GetOriginalFile)
}

func (h *PhotoHandler) GetThumbnail(c *gin.Context) {
	h.serveFile(c, h.photoService.GetThumbnailFile)
}

func (h *PhotoHandler) GetAnnotated(c *gin.Context) {
	h.serveFile(c, h.photoService.GetAnnotatedFile)
}

func (h *PhotoHandler) serveFile(c *gin.Context, open func(ctx context.Context, id string) (io.ReadCloser, *entity.Photo, error)) {
	id := c.Param("id")

	reader, photo, err := open(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrPhotoNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Photo not found"})
		case errors.Is(err, entity.ErrNotAnnotated):
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Annotated photo is not ready"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentTypeFor(photo.Filename))
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}

func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	id := c.Param("id")

	if err := h.photoService.DeletePhoto(c.Request.Context(), id); err != nil {
		if errors.Is(err, entity.ErrPhotoNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Photo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Photo deleted"})
}

func isValidImageType(ext string) bool {
	validTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	return validTypes[ext]
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
