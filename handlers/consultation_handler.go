package handlers

import (
	"context"
	"fmt"
	"net/http"

	"herelaw-backend/service"
	"herelaw-backend/storage"

	"github.com/gin-gonic/gin"
)

type consultationService interface {
	Transcribe(ctx context.Context, req service.TranscribeRequest) (*service.TranscribeResult, error)
}

// ConsultationHandler handles uploads of recorded consultations
type ConsultationHandler struct {
	consultationService consultationService
	maxFileSize         int64
}

// NewConsultationHandler creates a new consultation handler
func NewConsultationHandler(consultationService consultationService) *ConsultationHandler {
	return &ConsultationHandler{
		consultationService: consultationService,
		maxFileSize:         service.MaxAudioSize,
	}
}

// UploadAudio handles POST /api/consultations/audio
func (h *ConsultationHandler) UploadAudio(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "Audio file is required")
		return
	}

	if fileHeader.Size > h.maxFileSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return
	}

	if !storage.IsAudio(fileHeader.Filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE",
			"File type not allowed. Allowed types: MP3, WAV, M4A, WEBM, OGG")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	result, err := h.consultationService.Transcribe(c.Request.Context(), service.TranscribeRequest{
		UserID:   userID,
		Filename: fileHeader.Filename,
		Audio:    file,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"file_id": result.File.ID,
		"text":    result.Text,
	})
}
