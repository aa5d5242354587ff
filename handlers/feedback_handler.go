package handlers

import (
	"context"
	"net/http"

	"herelaw-backend/models"
	"herelaw-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type feedbackService interface {
	RateComplaint(ctx context.Context, req service.RateComplaintRequest) (*service.RateComplaintResult, error)
	Statistics(ctx context.Context) (*models.FeedbackStatistics, error)
	BestPractices(ctx context.Context) (*service.BestPracticesResult, error)
}

// FeedbackHandler handles HTTP requests for complaint ratings
type FeedbackHandler struct {
	feedbackService feedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService feedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// RateRequest represents the request body for rating a complaint
type RateRequest struct {
	SessionID string  `json:"session_id" binding:"required"`
	Complaint string  `json:"complaint"`
	Rating    float64 `json:"rating" binding:"required"`
	Feedback  string  `json:"feedback"`
}

// Rate handles POST /api/rating
func (h *FeedbackHandler) Rate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "Invalid session_id format")
		return
	}

	result, err := h.feedbackService.RateComplaint(c.Request.Context(), service.RateComplaintRequest{
		SessionID: sessionID,
		UserID:    userID,
		Complaint: req.Complaint,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"session_id": result.Record.SessionID,
		"rating":     result.Record.Rating,
		"reward":     result.Record.Reward,
	})
}

// Statistics handles GET /api/feedback-statistics
func (h *FeedbackHandler) Statistics(c *gin.Context) {
	stats, err := h.feedbackService.Statistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, stats)
}

// BestPractices handles GET /api/admin/best-practices
func (h *FeedbackHandler) BestPractices(c *gin.Context) {
	result, err := h.feedbackService.BestPractices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"available": result.Available,
		"bundle":    result.Bundle,
	})
}
