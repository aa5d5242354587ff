package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"herelaw-backend/auth"
	"herelaw-backend/quality"
	"herelaw-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// errorMapping pairs a sentinel with its HTTP status and error code
type errorMapping struct {
	target error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{quality.ErrInvalidArgument, http.StatusBadRequest, "INVALID_REQUEST"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrUserInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
	{service.ErrSessionNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrFileNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrAlreadyRated, http.StatusConflict, "ALREADY_RATED"},
	{service.ErrUserExists, http.StatusConflict, "USER_EXISTS"},
	{quality.ErrNotSupported, http.StatusNotImplemented, "NOT_SUPPORTED"},
	{quality.ErrUpstreamFailure, http.StatusBadGateway, "UPSTREAM_FAILURE"},
}

// respondServiceError maps a service error onto the JSON error envelope
func respondServiceError(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
			}
			respondError(c, m.status, m.code, err.Error())
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// pathID parses a UUID route parameter, writing a 400 response on failure
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user's ID, writing a 401 response when absent
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := auth.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}
