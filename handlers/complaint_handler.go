package handlers

import (
	"context"
	"net/http"

	"herelaw-backend/service"

	"github.com/gin-gonic/gin"
)

type complaintService interface {
	GenerateComplaint(ctx context.Context, req service.GenerateComplaintRequest) (*service.GenerateComplaintResult, error)
	UpdateComplaint(ctx context.Context, req service.UpdateComplaintRequest) (*service.UpdateComplaintResult, error)
	ExportComplaint(ctx context.Context, req service.ExportComplaintRequest) (*service.ExportComplaintResult, error)
}

// ComplaintHandler handles HTTP requests for complaint drafting
type ComplaintHandler struct {
	complaintService complaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService complaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// GenerateComplaintRequest represents the request body for generating a complaint
type GenerateComplaintRequest struct {
	ConsultationText string `json:"consultation_text" binding:"required"`
}

// Generate handles POST /api/complaints
func (h *ComplaintHandler) Generate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req GenerateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.complaintService.GenerateComplaint(c.Request.Context(), service.GenerateComplaintRequest{
		UserID:           userID,
		ConsultationText: req.ConsultationText,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"session_id":          result.Session.ID,
		"complaint":           result.Content,
		"used_best_practices": result.UsedBestPractices,
		"reference_count":     result.ReferenceCount,
		"created_at":          result.Session.CreatedAt,
	})
}

// UpdateComplaintRequest represents the request body for editing a complaint
type UpdateComplaintRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update handles PUT /api/complaints/:id
func (h *ComplaintHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.complaintService.UpdateComplaint(c.Request.Context(), service.UpdateComplaintRequest{
		SessionID: sessionID,
		UserID:    userID,
		Content:   req.Content,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Session)
}

// Export handles POST /api/complaints/:id/export
func (h *ComplaintHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.complaintService.ExportComplaint(c.Request.Context(), service.ExportComplaintRequest{
		SessionID: sessionID,
		UserID:    userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, result.File)
}
