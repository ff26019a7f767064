package progress

import (
	"time"

	"github.com/google/uuid"
)

// CompletionEvent is emitted once per true first-time transition of a
// unit, subject or course to COMPLETED. Consumed by the gamification
// subsystem; delivery is after-commit, at-least-once.
type CompletionEvent struct {
	EventID     string    `json:"event_id"`
	UserID      uint      `json:"user_id"`
	EntityType  string    `json:"entity_type"`
	EntityID    uint      `json:"entity_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func newCompletionEvent(userID uint, entityType string, entityID uint, completedAt time.Time) CompletionEvent {
	return CompletionEvent{
		EventID:     uuid.NewString(),
		UserID:      userID,
		EntityType:  entityType,
		EntityID:    entityID,
		CompletedAt: completedAt,
	}
}
