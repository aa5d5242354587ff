package service

import (
	"context"
	"errors"
	"testing"

	"herelaw-backend/models"
	"herelaw-backend/quality"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userEnv struct {
	svc      *UserService
	users    *fakeUserStore
	sessions *fakeSessionStore
	activity *fakeActivityStore
	user     *models.User
}

func newUserEnv(t *testing.T) *userEnv {
	t.Helper()
	env := &userEnv{
		users:    newFakeUserStore(),
		sessions: newFakeSessionStore(),
		activity: &fakeActivityStore{},
	}
	env.svc = NewUserService(
		WithUserStore(env.users),
		WithTokenIssuer(fakeTokenIssuer{}),
		WithSessionStats(env.sessions),
		WithActivityLog(env.activity),
	)

	result, err := env.svc.Register(context.Background(), RegisterRequest{
		Username: " lawyer ",
		Email:    "lawyer@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	env.user = result.User
	return env
}

func newUserFixture(t *testing.T) (*UserService, *fakeUserStore, *models.User) {
	t.Helper()
	env := newUserEnv(t)
	return env.svc, env.users, env.user
}

func TestRegister(t *testing.T) {
	_, users, user := newUserFixture(t)

	assert.Equal(t, "lawyer", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.Len(t, users.users, 1)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"duplicate username", RegisterRequest{Username: "lawyer", Email: "other@example.com", Password: "password123"}, ErrUserExists},
		{"duplicate email", RegisterRequest{Username: "other", Email: "lawyer@example.com", Password: "password123"}, ErrUserExists},
		{"short username", RegisterRequest{Username: "ab", Email: "a@example.com", Password: "password123"}, quality.ErrInvalidArgument},
		{"bad email", RegisterRequest{Username: "someone", Email: "not-an-email", Password: "password123"}, quality.ErrInvalidArgument},
		{"short password", RegisterRequest{Username: "someone", Email: "s@example.com", Password: "short"}, quality.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, users, user := newUserFixture(t)

	result, err := svc.Login(context.Background(), LoginRequest{Username: "lawyer", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "token-lawyer", result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotNil(t, users.users[user.ID].LastLoginAt)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "lawyer", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _, user := newUserFixture(t)

	err := svc.ChangePassword(context.Background(), ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password-1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "password123",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "lawyer", Password: "new-password-1"})
	assert.NoError(t, err)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_InactiveUser(t *testing.T) {
	env := newUserEnv(t)
	env.users.users[env.user.ID].Status = models.StatusInactive

	_, err := env.svc.Login(context.Background(), LoginRequest{Username: "lawyer", Password: "password123"})
	assert.ErrorIs(t, err, ErrUserInactive)
	assert.Nil(t, env.users.users[env.user.ID].LastLoginAt)

	// wrong password on an inactive account is still a credential failure
	_, err = env.svc.Login(context.Background(), LoginRequest{Username: "lawyer", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountActivityIsRecorded(t *testing.T) {
	env := newUserEnv(t)
	ctx := context.Background()

	_, err := env.svc.Login(ctx, LoginRequest{Username: "lawyer", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, env.svc.ChangePassword(ctx, ChangePasswordRequest{
		UserID:          env.user.ID,
		CurrentPassword: "password123",
		NewPassword:     "new-password-1",
	}))

	assert.Equal(t, []models.ActivityAction{
		models.ActionRegister,
		models.ActionLogin,
		models.ActionPasswordChange,
	}, env.activity.actions(env.user.ID))
}

func TestAccountActivity_StoreFailureIsNotFatal(t *testing.T) {
	env := newUserEnv(t)
	env.activity.err = errors.New("mongo down")

	_, err := env.svc.Login(context.Background(), LoginRequest{Username: "lawyer", Password: "password123"})
	assert.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	env := newUserEnv(t)
	_, err := env.svc.Register(context.Background(), RegisterRequest{
		Username: "second",
		Email:    "second@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	users, err := env.svc.ListUsers(context.Background(), ListUsersRequest{})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = env.svc.ListUsers(context.Background(), ListUsersRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = env.svc.ListUsers(context.Background(), ListUsersRequest{Offset: 5})
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUpdateUser(t *testing.T) {
	env := newUserEnv(t)
	admin := uuid.New()

	email := " new@example.com "
	role := models.RoleAdmin
	status := models.StatusInactive
	level := 3
	user, err := env.svc.UpdateUser(context.Background(), UpdateUserRequest{
		ActorID: admin,
		UserID:  env.user.ID,
		Update:  models.UserUpdate{Email: &email, Role: &role, Status: &status, Level: &level},
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, models.StatusInactive, user.Status)
	assert.Equal(t, 3, user.Level)

	last := env.activity.entries[len(env.activity.entries)-1]
	assert.Equal(t, models.ActionAccountUpdate, last.Action)
	assert.Equal(t, admin.String(), last.Detail["actor_id"])
	assert.Equal(t, "3", last.Detail["level"])
}

func TestUpdateUser_PartialUpdateKeepsOtherFields(t *testing.T) {
	env := newUserEnv(t)
	level := 2

	user, err := env.svc.UpdateUser(context.Background(), UpdateUserRequest{
		UserID: env.user.ID,
		Update: models.UserUpdate{Level: &level},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, "lawyer@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.StatusActive, user.Status)
}

func TestUpdateUser_Rejections(t *testing.T) {
	env := newUserEnv(t)
	_, err := env.svc.Register(context.Background(), RegisterRequest{
		Username: "second",
		Email:    "second@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	ptr := func(s string) *string { return &s }
	role := models.UserRole("superuser")
	status := models.UserStatus("banned")
	zero, six := 0, 6

	tests := []struct {
		name    string
		userID  uuid.UUID
		update  models.UserUpdate
		wantErr error
	}{
		{"no fields", env.user.ID, models.UserUpdate{}, quality.ErrInvalidArgument},
		{"bad email", env.user.ID, models.UserUpdate{Email: ptr("nope")}, quality.ErrInvalidArgument},
		{"unknown role", env.user.ID, models.UserUpdate{Role: &role}, quality.ErrInvalidArgument},
		{"unknown status", env.user.ID, models.UserUpdate{Status: &status}, quality.ErrInvalidArgument},
		{"level too low", env.user.ID, models.UserUpdate{Level: &zero}, quality.ErrInvalidArgument},
		{"level too high", env.user.ID, models.UserUpdate{Level: &six}, quality.ErrInvalidArgument},
		{"email taken", env.user.ID, models.UserUpdate{Email: ptr("second@example.com")}, ErrUserExists},
		{"unknown user", uuid.New(), models.UserUpdate{Email: ptr("x@example.com")}, ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.UpdateUser(context.Background(), UpdateUserRequest{UserID: tt.userID, Update: tt.update})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResetPassword(t *testing.T) {
	env := newUserEnv(t)
	ctx := context.Background()
	admin := uuid.New()

	err := env.svc.ResetPassword(ctx, ResetPasswordRequest{ActorID: admin, UserID: env.user.ID, NewPassword: "short"})
	assert.ErrorIs(t, err, quality.ErrInvalidArgument)

	err = env.svc.ResetPassword(ctx, ResetPasswordRequest{ActorID: admin, UserID: uuid.New(), NewPassword: "reset-password-1"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, env.svc.ResetPassword(ctx, ResetPasswordRequest{ActorID: admin, UserID: env.user.ID, NewPassword: "reset-password-1"}))

	_, err = env.svc.Login(ctx, LoginRequest{Username: "lawyer", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Login(ctx, LoginRequest{Username: "lawyer", Password: "reset-password-1"})
	assert.NoError(t, err)

	assert.Contains(t, env.activity.actions(env.user.ID), models.ActionPasswordReset)
}

func TestLevelForSessions(t *testing.T) {
	tests := []struct {
		sessions int
		want     int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{19, 2},
		{20, 3},
		{30, 4},
		{49, 4},
		{50, 5},
		{500, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForSessions(tt.sessions), "sessions=%d", tt.sessions)
	}
}

// seedUserSessions creates n sessions for userID, rating the first len(ratings) of them
func seedUserSessions(t *testing.T, store *fakeSessionStore, userID uuid.UUID, n int, ratings ...float64) {
	t.Helper()
	for i := 0; i < n; i++ {
		s := &models.Session{UserID: userID, ConsultationText: "상담", GeneratedContent: "소장"}
		require.NoError(t, store.Create(context.Background(), s))
		if i < len(ratings) {
			require.NoError(t, store.UpdateRating(context.Background(), s.ID, ratings[i], nil))
		}
	}
}

func TestStats(t *testing.T) {
	env := newUserEnv(t)
	seedUserSessions(t, env.sessions, env.user.ID, 3, 4, 5)
	seedUserSessions(t, env.sessions, uuid.New(), 2, 1, 1)

	_, err := env.svc.Login(context.Background(), LoginRequest{Username: "lawyer", Password: "password123"})
	require.NoError(t, err)

	stats, err := env.svc.Stats(context.Background(), env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSessions)
	assert.InDelta(t, 4.5, stats.AverageRating, 1e-9)
	assert.NotNil(t, stats.LastLogin)
	assert.Equal(t, models.MinLevel, stats.Level)

	_, err = env.svc.Stats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStats_NoSessions(t *testing.T) {
	env := newUserEnv(t)

	stats, err := env.svc.Stats(context.Background(), env.user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSessions)
	assert.Zero(t, stats.AverageRating)
	assert.Nil(t, stats.LastLogin)
}

func TestRefreshLevel(t *testing.T) {
	env := newUserEnv(t)
	ctx := context.Background()

	seedUserSessions(t, env.sessions, env.user.ID, 9)
	level, err := env.svc.RefreshLevel(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, level)
	assert.Equal(t, 1, env.users.users[env.user.ID].Level)

	seedUserSessions(t, env.sessions, env.user.ID, 1)
	level, err = env.svc.RefreshLevel(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Equal(t, 2, env.users.users[env.user.ID].Level)

	seedUserSessions(t, env.sessions, env.user.ID, 40)
	level, err = env.svc.RefreshLevel(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, level)
}

func TestRefreshLevel_BelowThresholdKeepsAssignedLevel(t *testing.T) {
	env := newUserEnv(t)
	env.users.users[env.user.ID].Level = 4
	seedUserSessions(t, env.sessions, env.user.ID, 3)

	level, err := env.svc.RefreshLevel(context.Background(), env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, level)
	assert.Equal(t, 4, env.users.users[env.user.ID].Level)
}

func TestActivityLogs(t *testing.T) {
	env := newUserEnv(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := env.svc.Login(ctx, LoginRequest{Username: "lawyer", Password: "password123"})
		require.NoError(t, err)
	}

	logs, err := env.svc.ActivityLogs(ctx, ActivityLogsRequest{UserID: env.user.ID})
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, models.ActionLogin, logs[0].Action)
	assert.Equal(t, models.ActionRegister, logs[3].Action)

	logs, err = env.svc.ActivityLogs(ctx, ActivityLogsRequest{UserID: env.user.ID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = env.svc.ActivityLogs(ctx, ActivityLogsRequest{UserID: uuid.New()})
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}
