package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"herelaw-backend/models"
	"herelaw-backend/quality"
	"herelaw-backend/repository"

	"github.com/google/uuid"
)

// FeedbackService records complaint evaluations and reports on them
type FeedbackService struct {
	feedback      FeedbackStore
	sessions      SessionStore
	bestPractices BestPracticeProvider
	activity      ActivityStore
	now           func() time.Time
}

// FeedbackServiceOption is a functional option for FeedbackService
type FeedbackServiceOption func(*FeedbackService)

// FeedbackWithStore sets the feedback store
func FeedbackWithStore(store FeedbackStore) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.feedback = store
	}
}

// FeedbackWithSessionStore sets the session store
func FeedbackWithSessionStore(store SessionStore) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.sessions = store
	}
}

// FeedbackWithBestPractices sets the best-practice provider
func FeedbackWithBestPractices(p BestPracticeProvider) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.bestPractices = p
	}
}

// FeedbackWithActivityLog sets the store that records ratings
func FeedbackWithActivityLog(store ActivityStore) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.activity = store
	}
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(opts ...FeedbackServiceOption) *FeedbackService {
	s := &FeedbackService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RateComplaintRequest represents a user's evaluation of a generated complaint.
// An empty Complaint rates the session's current content.
type RateComplaintRequest struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Complaint string
	Rating    float64
	Feedback  string
}

// RateComplaintResult represents the stored evaluation
type RateComplaintResult struct {
	Record *models.FeedbackRecord
}

// RateComplaint stores a rating with its features and reward. Each session can be rated once.
func (s *FeedbackService) RateComplaint(ctx context.Context, req RateComplaintRequest) (*RateComplaintResult, error) {
	if s.feedback == nil {
		return nil, errors.New("feedback store not set")
	}
	if s.sessions == nil {
		return nil, errors.New("session store not set")
	}
	if !(req.Rating >= models.MinRating && req.Rating <= models.MaxRating) {
		return nil, fmt.Errorf("%w: rating must be between %v and %v", quality.ErrInvalidArgument, models.MinRating, models.MaxRating)
	}

	session, err := ownedSession(ctx, s.sessions, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}

	complaint := req.Complaint
	if strings.TrimSpace(complaint) == "" {
		complaint = session.GeneratedContent
	}
	if strings.TrimSpace(complaint) == "" {
		return nil, fmt.Errorf("%w: complaint is required", quality.ErrInvalidArgument)
	}

	rated, err := s.feedback.ExistsForSession(ctx, session.ID.String())
	if err != nil {
		return nil, err
	}
	if rated {
		return nil, ErrAlreadyRated
	}

	reward, err := quality.CalculateReward(req.Rating, utf8.RuneCountInString(complaint))
	if err != nil {
		return nil, err
	}

	record := &models.FeedbackRecord{
		SessionID: session.ID.String(),
		UserID:    req.UserID.String(),
		Complaint: complaint,
		Features:  quality.ExtractFeatures(complaint),
		Rating:    req.Rating,
		Reward:    reward,
		Feedback:  strings.TrimSpace(req.Feedback),
		CreatedAt: s.now().UTC(),
	}
	if err := s.feedback.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRated
		}
		if errors.Is(err, models.ErrInvalidFeedback) {
			return nil, fmt.Errorf("%w: %w", quality.ErrInvalidArgument, err)
		}
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	var feedback *string
	if record.Feedback != "" {
		feedback = &record.Feedback
	}
	if err := s.sessions.UpdateRating(ctx, session.ID, req.Rating, feedback); err != nil {
		slog.WarnContext(ctx, "failed to mirror rating on session", "session_id", session.ID, "error", err)
	}

	slog.InfoContext(ctx, "complaint rated",
		"session_id", session.ID,
		"rating", record.Rating,
		"reward", record.Reward,
	)
	recordActivity(ctx, s.activity, req.UserID, models.ActionComplaintRate, map[string]string{
		"session_id": record.SessionID,
		"rating":     strconv.FormatFloat(record.Rating, 'f', -1, 64),
	})

	return &RateComplaintResult{Record: record}, nil
}

// Statistics summarizes all stored ratings
func (s *FeedbackService) Statistics(ctx context.Context) (*models.FeedbackStatistics, error) {
	if s.feedback == nil {
		return nil, errors.New("feedback store not set")
	}
	stats, err := s.feedback.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute feedback statistics: %w", err)
	}
	return stats, nil
}

// BestPracticesResult reports the current bundle, if one can be produced
type BestPracticesResult struct {
	Available bool
	Bundle    *quality.BestPracticeBundle
}

// BestPractices returns the bundle used for generation. Too little data is not an error.
func (s *FeedbackService) BestPractices(ctx context.Context) (*BestPracticesResult, error) {
	if s.bestPractices == nil {
		return &BestPracticesResult{}, nil
	}
	bundle, err := s.bestPractices.BestPractices(ctx)
	if err != nil {
		if errors.Is(err, quality.ErrDataUnavailable) {
			slog.InfoContext(ctx, "best practices not available", "error", err)
			return &BestPracticesResult{}, nil
		}
		return nil, err
	}
	return &BestPracticesResult{Available: true, Bundle: bundle}, nil
}
