package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"herelaw-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedbackCollection is the MongoDB collection holding feedback records
const FeedbackCollection = "feedback"

// FeedbackRepository stores feedback records in MongoDB.
// Records are append-only.
type FeedbackRepository struct {
	coll *mongo.Collection
}

// NewFeedbackRepository creates a new feedback repository on db
func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection(FeedbackCollection)}
}

// EnsureIndexes creates the indexes used by the top-rated query and the
// one-rating-per-session rule
func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("session_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("rating_desc"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create feedback indexes: %w", err)
	}
	return nil
}

// Insert validates and stores a feedback record
func (r *FeedbackRepository) Insert(ctx context.Context, record *models.FeedbackRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.coll.InsertOne(ctx, record)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// ExistsForSession reports whether the session has already been rated
func (r *FeedbackRepository) ExistsForSession(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"session_id": sessionID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count feedback: %w", err)
	}
	return n > 0, nil
}

// TopRated returns records with rating >= minRating, highest rating first.
// Equal ratings keep insertion order.
func (r *FeedbackRepository) TopRated(ctx context.Context, minRating float64, limit int) ([]models.FeedbackRecord, error) {
	filter, opts := topRatedQuery(minRating, limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.FeedbackRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return records, nil
}

func topRatedQuery(minRating float64, limit int) (bson.M, *options.FindOptions) {
	filter := bson.M{"rating": bson.M{"$gte": minRating}}
	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return filter, opts
}

type ratingSummary struct {
	Average float64   `bson:"average"`
	Count   int       `bson:"count"`
	Ratings []float64 `bson:"ratings"`
}

// Statistics aggregates the average rating, the record count and a
// five-bin rating histogram over all stored feedback
func (r *FeedbackRepository) Statistics(ctx context.Context) (*models.FeedbackStatistics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "ratings", Value: bson.D{{Key: "$push", Value: "$rating"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback: %w", err)
	}
	defer cursor.Close(ctx)

	stats := &models.FeedbackStatistics{}
	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("failed to read feedback aggregate: %w", err)
		}
		return stats, nil
	}

	var summary ratingSummary
	if err := cursor.Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode feedback aggregate: %w", err)
	}

	stats.AverageRating = summary.Average
	stats.TotalFeedback = summary.Count
	stats.RatingDistribution = ratingHistogram(summary.Ratings)
	return stats, nil
}

// ratingHistogram buckets ratings into five equal-width bins over [1,5].
// Out-of-range values are clamped to the edge bins; NaN is skipped.
func ratingHistogram(ratings []float64) [5]int {
	var bins [5]int
	const width = (models.MaxRating - models.MinRating) / 5
	for _, r := range ratings {
		if math.IsNaN(r) {
			continue
		}
		i := int((r - models.MinRating) / width)
		if i < 0 {
			i = 0
		}
		if i > 4 {
			i = 4
		}
		bins[i]++
	}
	return bins
}
