package handlers

import (
	"context"
	"net/http"
	"strconv"

	"herelaw-backend/service"

	"github.com/gin-gonic/gin"
)

type sessionService interface {
	ListSessions(ctx context.Context, req service.ListSessionsRequest) (*service.ListSessionsResult, error)
	GetSession(ctx context.Context, req service.GetSessionRequest) (*service.GetSessionResult, error)
}

// SessionHandler handles HTTP requests for consultation sessions
type SessionHandler struct {
	sessionService sessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService sessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// List handles GET /api/sessions
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.sessionService.ListSessions(c.Request.Context(), service.ListSessionsRequest{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Sessions)
}

// Get handles GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.sessionService.GetSession(c.Request.Context(), service.GetSessionRequest{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Session)
}
