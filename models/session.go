package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one consultation and the complaint generated from it
type Session struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	ConsultationText string    `json:"consultation_text"`
	GeneratedContent string    `json:"generated_content"`

	// Mirrored from the feedback record once the user rates the complaint
	Rating   *float64 `json:"rating,omitempty"`
	Feedback *string  `json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRating reports whether the session has been evaluated
func (s *Session) HasRating() bool {
	return s.Rating != nil
}
