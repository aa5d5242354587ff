package handlers

import (
	"context"
	"net/http"
	"strconv"

	"herelaw-backend/models"
	"herelaw-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type adminUserService interface {
	ListUsers(ctx context.Context, req service.ListUsersRequest) ([]*models.User, error)
	UpdateUser(ctx context.Context, req service.UpdateUserRequest) (*models.User, error)
	ResetPassword(ctx context.Context, req service.ResetPasswordRequest) error
	Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
	ActivityLogs(ctx context.Context, req service.ActivityLogsRequest) ([]models.ActivityLog, error)
}

// AdminHandler handles HTTP requests for account management
type AdminHandler struct {
	userService adminUserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService adminUserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.userService.ListUsers(c.Request.Context(), service.ListUsersRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, users)
}

// UpdateUserRequest represents the request body for an account edit.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Email  *string            `json:"email"`
	Role   *models.UserRole   `json:"role"`
	Status *models.UserStatus `json:"status"`
	Level  *int               `json:"level"`
}

// UpdateUser handles PUT /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), service.UpdateUserRequest{
		ActorID: actorID,
		UserID:  id,
		Update: models.UserUpdate{
			Email:  req.Email,
			Role:   req.Role,
			Status: req.Status,
			Level:  req.Level,
		},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// ResetPasswordRequest represents the request body for a password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword handles POST /api/admin/users/:id/reset-password
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	err := h.userService.ResetPassword(c.Request.Context(), service.ResetPasswordRequest{
		ActorID:     actorID,
		UserID:      id,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Password reset"})
}

// Stats handles GET /api/admin/users/:id/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.userService.Stats(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, stats)
}

// Logs handles GET /api/admin/users/:id/logs
func (h *AdminHandler) Logs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	logs, err := h.userService.ActivityLogs(c.Request.Context(), service.ActivityLogsRequest{
		UserID: id,
		Limit:  limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, logs)
}
