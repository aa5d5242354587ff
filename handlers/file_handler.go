package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"herelaw-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fileService interface {
	OpenFile(ctx context.Context, id, userID uuid.UUID) (*models.File, io.ReadCloser, error)
}

// FileHandler handles HTTP requests for file operations
type FileHandler struct {
	fileService fileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService fileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// GetFile handles GET /api/files/:id
func (h *FileHandler) GetFile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, reader, err := h.fileService.OpenFile(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(file.Filename)),
	})
}
