package progress

import (
	"errors"
	"fmt"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Record is the level-independent view of a single progress row.
type Record struct {
	Status                 string     `json:"status"`
	ExpectedCompletionTime int        `json:"expected_completion_time"`
	StartedAt              time.Time  `json:"started_at"`
	CompletedAt            *time.Time `json:"completed_at"`
}

// levelTable maps an entity type onto its progress model and the column
// holding the entity identifier.
func levelTable(entityType string) (interface{}, string, error) {
	switch entityType {
	case courseModels.EntityCourse:
		return &courseModels.UserCourse{}, "course_id", nil
	case courseModels.EntitySubject:
		return &courseModels.UserSubject{}, "subject_id", nil
	case courseModels.EntityUnit:
		return &courseModels.UserUnit{}, "unit_id", nil
	case courseModels.EntityContent:
		return &courseModels.UserContent{}, "content_id", nil
	default:
		return nil, "", fmt.Errorf("unknown entity type %s", entityType)
	}
}

// CreateIfAbsent creates a progress record in IN_PROGRESS with started_at
// set to now. It fails with ErrConflict when a record already exists for
// that (user, entity) pair, and with ErrNotFound when the hierarchy entity
// itself does not exist. Expected completion time is copied from the
// authored entity.
func CreateIfAbsent(db *gorm.DB, userID uint, entityType string, entityID uint) error {
	completionTime, err := entityCompletionTime(db, entityType, entityID)
	if err != nil {
		return err
	}

	now := time.Now()
	var row interface{}
	switch entityType {
	case courseModels.EntityCourse:
		row = &courseModels.UserCourse{UserID: userID, CourseID: entityID, Status: courseModels.StatusInProgress, ExpectedCompletionTime: completionTime, StartedAt: now}
	case courseModels.EntitySubject:
		row = &courseModels.UserSubject{UserID: userID, SubjectID: entityID, Status: courseModels.StatusInProgress, ExpectedCompletionTime: completionTime, StartedAt: now}
	case courseModels.EntityUnit:
		row = &courseModels.UserUnit{UserID: userID, UnitID: entityID, Status: courseModels.StatusInProgress, ExpectedCompletionTime: completionTime, StartedAt: now}
	case courseModels.EntityContent:
		row = &courseModels.UserContent{UserID: userID, ContentID: entityID, Status: courseModels.StatusInProgress, ExpectedCompletionTime: completionTime, StartedAt: now}
	}

	if err := db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %d already started %s %d: %w", userID, entityType, entityID, ErrConflict)
		}
		return err
	}
	return nil
}

// Get returns the progress record for the given (user, entity) pair, or
// ErrNotFound when none exists.
func Get(db *gorm.DB, userID uint, entityType string, entityID uint) (*Record, error) {
	model, column, err := levelTable(entityType)
	if err != nil {
		return nil, err
	}

	var rec Record
	err = db.Model(model).
		Select("status, expected_completion_time, started_at, completed_at").
		Where("user_id = ? AND "+column+" = ?", userID, entityID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d has no record for %s %d: %w", userID, entityType, entityID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update mutates an existing progress record in place. It never creates;
// a missing record surfaces as ErrNotFound.
func Update(db *gorm.DB, userID uint, entityType string, entityID uint, status string, completedAt *time.Time) error {
	model, column, err := levelTable(entityType)
	if err != nil {
		return err
	}

	values := map[string]interface{}{"status": status}
	if completedAt != nil {
		values["completed_at"] = *completedAt
	}

	result := db.Model(model).
		Where("user_id = ? AND "+column+" = ?", userID, entityID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d has no record for %s %d: %w", userID, entityType, entityID, ErrNotFound)
	}
	return nil
}

// MarkCompleted transitions a record to COMPLETED, conditional on the row
// not already being there. The status guard lives in the WHERE clause so a
// racing transaction that passed an earlier read check still loses: zero
// rows affected means another writer completed the record first, and the
// caller gets ErrConflict instead of silently re-applying the update.
func MarkCompleted(db *gorm.DB, userID uint, entityType string, entityID uint, completedAt time.Time) error {
	model, column, err := levelTable(entityType)
	if err != nil {
		return err
	}

	result := db.Model(model).
		Where("user_id = ? AND "+column+" = ? AND status <> ?", userID, entityID, courseModels.StatusCompleted).
		Updates(map[string]interface{}{
			"status":       courseModels.StatusCompleted,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d already completed %s %d: %w", userID, entityType, entityID, ErrConflict)
	}
	return nil
}

// completedChildIDs returns the set of child entity IDs (from the given
// list) that the user has COMPLETED records for.
func completedChildIDs(db *gorm.DB, userID uint, childType string, childIDs []uint) (map[uint]bool, error) {
	completed := make(map[uint]bool)
	if len(childIDs) == 0 {
		return completed, nil
	}

	model, column, err := levelTable(childType)
	if err != nil {
		return nil, err
	}

	var ids []uint
	if err := db.Model(model).
		Where("user_id = ? AND status = ? AND "+column+" IN ?", userID, courseModels.StatusCompleted, childIDs).
		Pluck(column, &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}
