package service

import (
	"context"
	"time"

	"herelaw-backend/models"
	"herelaw-backend/quality"

	"github.com/google/uuid"
)

// SessionStore persists consultation sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	UpdateGeneratedContent(ctx context.Context, id uuid.UUID, content string) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, feedback *string) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Session, error)
}

// SessionStatsStore summarizes a user's sessions
type SessionStatsStore interface {
	StatsByUserID(ctx context.Context, userID uuid.UUID) (total int, average float64, err error)
}

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLevel(ctx context.Context, id uuid.UUID, level int) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// ActivityStore persists user activity logs
type ActivityStore interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error)
}

// LevelRefresher recomputes a user's level from their activity
type LevelRefresher interface {
	RefreshLevel(ctx context.Context, userID uuid.UUID) (int, error)
}

// FileStore persists file metadata
type FileStore interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
}

// FeedbackStore persists feedback records
type FeedbackStore interface {
	Insert(ctx context.Context, record *models.FeedbackRecord) error
	ExistsForSession(ctx context.Context, sessionID string) (bool, error)
	Statistics(ctx context.Context) (*models.FeedbackStatistics, error)
}

// ChunkSearcher finds reference chunks near an embedding
type ChunkSearcher interface {
	SearchByDocType(ctx context.Context, embedding []float64, docType models.ReferenceDocType, limit int) ([]models.ReferenceChunk, error)
}

// BestPracticeProvider produces the advisory bundle used to steer generation
type BestPracticeProvider interface {
	BestPractices(ctx context.Context) (*quality.BestPracticeBundle, error)
}

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	IssueToken(user *models.User) (string, time.Time, error)
}
