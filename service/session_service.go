package service

import (
	"context"
	"errors"

	"herelaw-backend/models"

	"github.com/google/uuid"
)

const (
	defaultSessionPageSize = 20
	maxSessionPageSize     = 100
)

// SessionService handles read access to consultation sessions
type SessionService struct {
	sessions SessionStore
}

// SessionServiceOption is a functional option for SessionService
type SessionServiceOption func(*SessionService)

// WithSessionStore sets the session store
func WithSessionStore(store SessionStore) SessionServiceOption {
	return func(s *SessionService) {
		s.sessions = store
	}
}

// NewSessionService creates a new session service
func NewSessionService(opts ...SessionServiceOption) *SessionService {
	s := &SessionService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListSessionsRequest represents a request to list a user's sessions
type ListSessionsRequest struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// ListSessionsResult represents the result of listing sessions
type ListSessionsResult struct {
	Sessions []*models.Session
}

// ListSessions lists a user's sessions, newest first
func (s *SessionService) ListSessions(ctx context.Context, req ListSessionsRequest) (*ListSessionsResult, error) {
	if s.sessions == nil {
		return nil, errors.New("session store not set")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSessionPageSize
	}
	if limit > maxSessionPageSize {
		limit = maxSessionPageSize
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.sessions.ListByUserID(ctx, req.UserID, limit, offset)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}

	return &ListSessionsResult{Sessions: sessions}, nil
}

// GetSessionRequest represents a request to get one session
type GetSessionRequest struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// GetSessionResult represents the result of getting a session
type GetSessionResult struct {
	Session *models.Session
}

// GetSession retrieves a session owned by the user
func (s *SessionService) GetSession(ctx context.Context, req GetSessionRequest) (*GetSessionResult, error) {
	if s.sessions == nil {
		return nil, errors.New("session store not set")
	}

	session, err := ownedSession(ctx, s.sessions, req.ID, req.UserID)
	if err != nil {
		return nil, err
	}

	return &GetSessionResult{Session: session}, nil
}
