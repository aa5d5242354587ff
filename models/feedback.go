package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating = 1.0
	MaxRating = 5.0
)

var ErrInvalidFeedback = errors.New("invalid feedback record")

// FeedbackRecord is a user evaluation of a generated complaint.
// Records are immutable once stored.
type FeedbackRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Complaint string             `bson:"complaint" json:"complaint"`
	Features  []float64          `bson:"features" json:"features"`
	Rating    float64            `bson:"rating" json:"rating"`
	Reward    float64            `bson:"reward" json:"reward"`
	Feedback  string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Validate checks the invariants enforced at the store boundary
func (r *FeedbackRecord) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalidFeedback)
	}
	if strings.TrimSpace(r.Complaint) == "" {
		return fmt.Errorf("%w: complaint is required", ErrInvalidFeedback)
	}
	if !(r.Rating >= MinRating && r.Rating <= MaxRating) {
		return fmt.Errorf("%w: rating %v outside [%v,%v]", ErrInvalidFeedback, r.Rating, MinRating, MaxRating)
	}
	return nil
}

// FeedbackStatistics summarizes all stored ratings
type FeedbackStatistics struct {
	AverageRating      float64 `json:"average_rating"`
	TotalFeedback      int     `json:"total_feedback"`
	RatingDistribution [5]int  `json:"rating_distribution"`
}
