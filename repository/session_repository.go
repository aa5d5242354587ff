package repository

import (
	"context"
	"fmt"

	"herelaw-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository handles database operations for consultation sessions
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, consultation_text, generated_content, rating, feedback, created_at, updated_at`

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (
			user_id, consultation_text, generated_content
		) VALUES (
			$1, $2, $3
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		session.UserID,
		session.ConsultationText,
		session.GeneratedContent,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	return err
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.ConsultationText,
		&session.GeneratedContent,
		&session.Rating,
		&session.Feedback,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	return session, nil
}

// UpdateGeneratedContent replaces the complaint text after a user edit
func (r *SessionRepository) UpdateGeneratedContent(ctx context.Context, id uuid.UUID, content string) error {
	query := `
		UPDATE sessions SET
			generated_content = $2,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, content)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRating mirrors the user's evaluation onto the session
func (r *SessionRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, feedback *string) error {
	query := `
		UPDATE sessions SET
			rating = $2,
			feedback = COALESCE($3, feedback),
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, rating, feedback)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUserID retrieves a user's sessions, newest first
func (r *SessionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = $1 ORDER BY created_at DESC`

	args := []interface{}{userID}
	argIndex := 2

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.ConsultationText,
			&session.GeneratedContent,
			&session.Rating,
			&session.Feedback,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// StatsByUserID counts a user's sessions and averages their ratings.
// Unrated sessions are excluded from the average; no ratings yields 0.
func (r *SessionRepository) StatsByUserID(ctx context.Context, userID uuid.UUID) (int, float64, error) {
	var (
		total   int
		average float64
	)
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM sessions WHERE user_id = $1`,
		userID,
	).Scan(&total, &average)
	if err != nil {
		return 0, 0, err
	}
	return total, average, nil
}
