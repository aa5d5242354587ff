package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityAction names a recorded user action
type ActivityAction string

const (
	ActionRegister          ActivityAction = "register"
	ActionLogin             ActivityAction = "login"
	ActionPasswordChange    ActivityAction = "password_change"
	ActionPasswordReset     ActivityAction = "password_reset"
	ActionAccountUpdate     ActivityAction = "account_update"
	ActionComplaintGenerate ActivityAction = "complaint_generate"
	ActionComplaintRate     ActivityAction = "complaint_rate"
)

// ActivityLog is one entry in a user's audit trail
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Action    ActivityAction     `bson:"action" json:"action"`
	Detail    map[string]string  `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
