package service

import (
	"context"
	"log/slog"

	"herelaw-backend/models"

	"github.com/google/uuid"
)

// recordActivity appends an entry to the user's activity log.
// A nil store or a failed write only logs a warning.
func recordActivity(ctx context.Context, store ActivityStore, userID uuid.UUID, action models.ActivityAction, detail map[string]string) {
	if store == nil {
		return
	}
	entry := &models.ActivityLog{
		UserID: userID.String(),
		Action: action,
		Detail: detail,
	}
	if err := store.Insert(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to record activity", "user_id", userID, "action", action, "error", err)
	}
}
