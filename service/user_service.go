package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"herelaw-backend/auth"
	"herelaw-backend/models"
	"herelaw-backend/quality"
	"herelaw-backend/repository"

	"github.com/google/uuid"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
)

// UserService handles registration, login and account management
type UserService struct {
	users    UserStore
	tokens   TokenIssuer
	sessions SessionStatsStore
	activity ActivityStore
}

// UserServiceOption is a functional option for UserService
type UserServiceOption func(*UserService)

// WithUserStore sets the user store
func WithUserStore(store UserStore) UserServiceOption {
	return func(s *UserService) {
		s.users = store
	}
}

// WithTokenIssuer sets the access token issuer
func WithTokenIssuer(issuer TokenIssuer) UserServiceOption {
	return func(s *UserService) {
		s.tokens = issuer
	}
}

// WithSessionStats sets the session statistics source used for stats and levels
func WithSessionStats(store SessionStatsStore) UserServiceOption {
	return func(s *UserService) {
		s.sessions = store
	}
}

// WithActivityLog sets the store that records account activity
func WithActivityLog(store ActivityStore) UserServiceOption {
	return func(s *UserService) {
		s.activity = store
	}
}

// NewUserService creates a new user service
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRequest represents a new account
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// RegisterResult represents the created account
type RegisterResult struct {
	User *models.User
}

// Register creates a user account with a bcrypt-hashed password
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if err := validateRegistration(username, email, req.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	recordActivity(ctx, s.activity, user.ID, models.ActionRegister, nil)
	return &RegisterResult{User: user}, nil
}

func validateRegistration(username, email, password string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", quality.ErrInvalidArgument, minUsernameLength, maxUsernameLength)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", quality.ErrInvalidArgument)
	}
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", quality.ErrInvalidArgument, auth.MinPasswordLength)
	}
	return nil
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string
	Password string
}

// LoginResult represents an authenticated session token
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Login verifies credentials and issues an access token
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}
	if s.tokens == nil {
		return nil, errors.New("token issuer not set")
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}
	recordActivity(ctx, s.activity, user.ID, models.ActionLogin, nil)

	token, exp, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword replaces the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if s.users == nil {
		return errors.New("user store not set")
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", quality.ErrInvalidArgument, auth.MinPasswordLength)
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return notFound(err, ErrUserNotFound)
	}

	recordActivity(ctx, s.activity, user.ID, models.ActionPasswordChange, nil)
	return nil
}
