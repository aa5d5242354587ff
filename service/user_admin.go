package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"

	"herelaw-backend/auth"
	"herelaw-backend/models"
	"herelaw-backend/quality"
	"herelaw-backend/repository"

	"github.com/google/uuid"
)

const defaultActivityLogLimit = 100

// levelThresholds maps minimum session counts to levels, highest first
var levelThresholds = []struct {
	sessions int
	level    int
}{
	{50, 5},
	{30, 4},
	{20, 3},
	{10, 2},
}

// LevelForSessions returns the level earned by a session count
func LevelForSessions(sessions int) int {
	for _, t := range levelThresholds {
		if sessions >= t.sessions {
			return t.level
		}
	}
	return models.MinLevel
}

// ListUsersRequest pages through accounts
type ListUsersRequest struct {
	Limit  int
	Offset int
}

// ListUsers returns accounts, oldest first
func (s *UserService) ListUsers(ctx context.Context, req ListUsersRequest) ([]*models.User, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}
	users, err := s.users.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// UpdateUserRequest represents an admin edit of an account
type UpdateUserRequest struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Update  models.UserUpdate
}

// UpdateUser applies an admin edit of email, role, status or level
func (s *UserService) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}

	update := req.Update
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		update.Email = &email
	}
	if err := validateUserUpdate(update); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, req.UserID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, notFound(err, ErrUserNotFound)
	}

	slog.InfoContext(ctx, "user updated", "user_id", user.ID, "actor_id", req.ActorID)
	recordActivity(ctx, s.activity, user.ID, models.ActionAccountUpdate, updateDetail(req.ActorID, update))
	return user, nil
}

func validateUserUpdate(u models.UserUpdate) error {
	if u.IsEmpty() {
		return fmt.Errorf("%w: no valid fields to update", quality.ErrInvalidArgument)
	}
	if u.Email != nil {
		if _, err := mail.ParseAddress(*u.Email); err != nil {
			return fmt.Errorf("%w: invalid email address", quality.ErrInvalidArgument)
		}
	}
	if u.Role != nil && !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", quality.ErrInvalidArgument, *u.Role)
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", quality.ErrInvalidArgument, *u.Status)
	}
	if u.Level != nil && (*u.Level < models.MinLevel || *u.Level > models.MaxLevel) {
		return fmt.Errorf("%w: level must be between %d and %d", quality.ErrInvalidArgument, models.MinLevel, models.MaxLevel)
	}
	return nil
}

func updateDetail(actor uuid.UUID, u models.UserUpdate) map[string]string {
	detail := map[string]string{"actor_id": actor.String()}
	if u.Email != nil {
		detail["email"] = *u.Email
	}
	if u.Role != nil {
		detail["role"] = string(*u.Role)
	}
	if u.Status != nil {
		detail["status"] = string(*u.Status)
	}
	if u.Level != nil {
		detail["level"] = strconv.Itoa(*u.Level)
	}
	return detail
}

// ResetPasswordRequest represents an admin password reset
type ResetPasswordRequest struct {
	ActorID     uuid.UUID
	UserID      uuid.UUID
	NewPassword string
}

// ResetPassword replaces a user's password without the current one
func (s *UserService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if s.users == nil {
		return errors.New("user store not set")
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", quality.ErrInvalidArgument, auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, req.UserID, hash); err != nil {
		return notFound(err, ErrUserNotFound)
	}

	slog.InfoContext(ctx, "password reset", "user_id", req.UserID, "actor_id", req.ActorID)
	recordActivity(ctx, s.activity, req.UserID, models.ActionPasswordReset, map[string]string{"actor_id": req.ActorID.String()})
	return nil
}

// Stats reports a user's session count, average rating, last login and level
func (s *UserService) Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}
	if s.sessions == nil {
		return nil, errors.New("session stats store not set")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	total, average, err := s.sessions.StatsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}

	return &models.UserStats{
		TotalSessions: total,
		AverageRating: average,
		LastLogin:     user.LastLoginAt,
		Level:         user.Level,
	}, nil
}

// RefreshLevel recomputes the user's level from their session count.
// The stored level is only written when the earned level is above the minimum
// and differs from the current one.
func (s *UserService) RefreshLevel(ctx context.Context, userID uuid.UUID) (int, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return 0, err
	}

	level := LevelForSessions(stats.TotalSessions)
	if level <= models.MinLevel || level == stats.Level {
		return stats.Level, nil
	}

	if err := s.users.UpdateLevel(ctx, userID, level); err != nil {
		return 0, notFound(err, ErrUserNotFound)
	}

	slog.InfoContext(ctx, "user level updated", "user_id", userID, "level", level, "sessions", stats.TotalSessions)
	return level, nil
}

// ActivityLogsRequest selects a user's activity log entries
type ActivityLogsRequest struct {
	UserID uuid.UUID
	Limit  int
}

// ActivityLogs returns a user's activity log, newest first
func (s *UserService) ActivityLogs(ctx context.Context, req ActivityLogsRequest) ([]models.ActivityLog, error) {
	if s.activity == nil {
		return nil, errors.New("activity store not set")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultActivityLogLimit
	}

	logs, err := s.activity.ListByUserID(ctx, req.UserID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity logs: %w", err)
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return logs, nil
}
