package repository

import (
	"context"
	"fmt"
	"time"

	"herelaw-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityLogCollection is the MongoDB collection holding user activity logs
const ActivityLogCollection = "logs"

// ActivityLogRepository stores user activity logs in MongoDB
type ActivityLogRepository struct {
	coll *mongo.Collection
}

// NewActivityLogRepository creates a new activity log repository on db
func NewActivityLogRepository(db *mongo.Database) *ActivityLogRepository {
	return &ActivityLogRepository{coll: db.Collection(ActivityLogCollection)}
}

// EnsureIndexes creates the per-user lookup index
func (r *ActivityLogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_id_created_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create activity log indexes: %w", err)
	}
	return nil
}

// Insert stores an activity log entry
func (r *ActivityLogRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}

// ListByUserID returns a user's log entries, newest first
func (r *ActivityLogRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []models.ActivityLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode activity logs: %w", err)
	}
	return logs, nil
}
