package progress

import (
	"errors"
	"fmt"
	"log"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// CompleteResult reports what a single CompleteContent call changed.
// Transitions carries one event per ancestor level that reached COMPLETED
// for the first time; the caller delivers them only after commit.
type CompleteResult struct {
	Accepted         bool              `json:"accepted"`
	UnitCompleted    bool              `json:"unit_completed"`
	SubjectCompleted bool              `json:"subject_completed"`
	CourseCompleted  bool              `json:"course_completed"`
	Transitions      []CompletionEvent `json:"-"`
}

// IsEnrolled reports whether the user has a paid enrollment for the course.
func IsEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.Model(&courseModels.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
			userID, courseID, courseModels.PaymentPaid, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// StartEntity creates the progress record for the given entity, creating
// any missing ancestor records on the way down (enrollment bootstrap).
// Starting an already-started entity returns ErrConflict; ancestor
// records that already exist are left untouched.
func StartEntity(db *gorm.DB, userID uint, entityType string, entityID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		ancestors, courseID, err := ancestorChain(tx, entityType, entityID)
		if err != nil {
			return err
		}

		enrolled, err := IsEnrolled(tx, userID, courseID)
		if err != nil {
			return err
		}
		if !enrolled {
			return fmt.Errorf("user %d, course %d: %w", userID, courseID, ErrNotEnrolled)
		}

		// Top-down so a partially failed bootstrap never leaves a child
		// record without its ancestors.
		for _, ancestor := range ancestors {
			if err := CreateIfAbsent(tx, userID, ancestor.entityType, ancestor.entityID); err != nil && !errors.Is(err, ErrConflict) {
				return err
			}
		}

		return CreateIfAbsent(tx, userID, entityType, entityID)
	})
}

type ancestorRef struct {
	entityType string
	entityID   uint
}

// ancestorChain resolves the ancestors of an entity from course downward,
// excluding the entity itself, and returns the owning course ID.
func ancestorChain(db *gorm.DB, entityType string, entityID uint) ([]ancestorRef, uint, error) {
	switch entityType {
	case courseModels.EntityCourse:
		return nil, entityID, nil
	case courseModels.EntitySubject:
		courseID, err := GetParent(db, courseModels.EntitySubject, entityID)
		if err != nil {
			return nil, 0, err
		}
		return []ancestorRef{{courseModels.EntityCourse, courseID}}, courseID, nil
	case courseModels.EntityUnit:
		subjectID, err := GetParent(db, courseModels.EntityUnit, entityID)
		if err != nil {
			return nil, 0, err
		}
		courseID, err := GetParent(db, courseModels.EntitySubject, subjectID)
		if err != nil {
			return nil, 0, err
		}
		return []ancestorRef{
			{courseModels.EntityCourse, courseID},
			{courseModels.EntitySubject, subjectID},
		}, courseID, nil
	case courseModels.EntityContent:
		unitID, subjectID, courseID, err := CourseOfContent(db, entityID)
		if err != nil {
			return nil, 0, err
		}
		return []ancestorRef{
			{courseModels.EntityCourse, courseID},
			{courseModels.EntitySubject, subjectID},
			{courseModels.EntityUnit, unitID},
		}, courseID, nil
	default:
		return nil, 0, fmt.Errorf("unknown entity type %s", entityType)
	}
}

// CompleteContent marks one content item COMPLETED for the user and
// propagates completion upward: when every published sibling at a level is
// complete, the parent transitions too, up to the course. The whole
// sequence runs in one transaction; any failure rolls back every write.
//
// The call is deliberately not idempotent: completing an already-completed
// content returns ErrConflict so callers can tell "accepted" from "no-op".
func CompleteContent(db *gorm.DB, userID, contentID uint) (*CompleteResult, error) {
	result := &CompleteResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		unitID, subjectID, courseID, err := CourseOfContent(tx, contentID)
		if err != nil {
			return err
		}

		record, err := Get(tx, userID, courseModels.EntityContent, contentID)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("content %d not started: %w", contentID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if record.Status == courseModels.StatusCompleted {
			return fmt.Errorf("content %d already completed: %w", contentID, ErrConflict)
		}

		// An already-COMPLETED unit above an incomplete content means the
		// upward invariant was broken by something else. Abort, never repair.
		unitRecord, err := Get(tx, userID, courseModels.EntityUnit, unitID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if unitRecord != nil && unitRecord.Status == courseModels.StatusCompleted {
			log.Printf("[PROGRESS] invariant violation: unit %d completed before content %d (user %d)", unitID, contentID, userID)
			return fmt.Errorf("unit %d completed before its content: %w", unitID, ErrInconsistent)
		}

		// The status guard in MarkCompleted closes the read-check race: a
		// second transaction whose Get ran before this commit blocks on the
		// row lock, then matches zero rows and surfaces ErrConflict instead
		// of moving completed_at.
		now := time.Now()
		if err := MarkCompleted(tx, userID, courseModels.EntityContent, contentID, now); err != nil {
			return err
		}
		result.Accepted = true

		// Level 1: contents -> unit
		done, err := allPublishedChildrenComplete(tx, userID, courseModels.EntityUnit, unitID)
		if err != nil || !done {
			return err
		}
		if err := completeAncestor(tx, userID, courseModels.EntityUnit, unitID, now); err != nil {
			return err
		}
		result.UnitCompleted = true
		result.Transitions = append(result.Transitions, newCompletionEvent(userID, courseModels.EntityUnit, unitID, now))

		// Level 2: units -> subject
		done, err = allPublishedChildrenComplete(tx, userID, courseModels.EntitySubject, subjectID)
		if err != nil || !done {
			return err
		}
		if err := completeAncestor(tx, userID, courseModels.EntitySubject, subjectID, now); err != nil {
			return err
		}
		result.SubjectCompleted = true
		result.Transitions = append(result.Transitions, newCompletionEvent(userID, courseModels.EntitySubject, subjectID, now))

		// Level 3: subjects -> course
		done, err = allPublishedChildrenComplete(tx, userID, courseModels.EntityCourse, courseID)
		if err != nil || !done {
			return err
		}
		if err := completeAncestor(tx, userID, courseModels.EntityCourse, courseID, now); err != nil {
			return err
		}
		result.CourseCompleted = true
		result.Transitions = append(result.Transitions, newCompletionEvent(userID, courseModels.EntityCourse, courseID, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// allPublishedChildrenComplete checks whether every published child of the
// parent has a COMPLETED record for the user. A child with no record at
// all counts as incomplete.
func allPublishedChildrenComplete(db *gorm.DB, userID uint, parentType string, parentID uint) (bool, error) {
	children, err := ListPublishedChildren(db, parentType, parentID)
	if err != nil {
		return false, err
	}

	childType, err := ChildLevel(parentType)
	if err != nil {
		return false, err
	}
	childIDs := make([]uint, len(children))
	for i, child := range children {
		childIDs[i] = child.ID
	}

	completed, err := completedChildIDs(db, userID, childType, childIDs)
	if err != nil {
		return false, err
	}
	for _, child := range children {
		if !completed[child.ID] {
			return false, nil
		}
	}
	return true, nil
}

// completeAncestor transitions an ancestor record to COMPLETED, creating
// the record first if the bootstrap never reached it. Finding it already
// COMPLETED here means a child completed after its parent, which is an
// invariant violation.
func completeAncestor(db *gorm.DB, userID uint, entityType string, entityID uint, completedAt time.Time) error {
	record, err := Get(db, userID, entityType, entityID)
	if errors.Is(err, ErrNotFound) {
		if err := CreateIfAbsent(db, userID, entityType, entityID); err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else if record.Status == courseModels.StatusCompleted {
		log.Printf("[PROGRESS] invariant violation: %s %d already completed before its children (user %d)", entityType, entityID, userID)
		return fmt.Errorf("%s %d completed before its children: %w", entityType, entityID, ErrInconsistent)
	}

	// A conflict here means a racing writer completed the ancestor between
	// the read above and this write, which is the same parent-before-child
	// violation the read check guards against.
	if err := MarkCompleted(db, userID, entityType, entityID, completedAt); err != nil {
		if errors.Is(err, ErrConflict) {
			log.Printf("[PROGRESS] invariant violation: %s %d completed concurrently before its children (user %d)", entityType, entityID, userID)
			return fmt.Errorf("%s %d completed before its children: %w", entityType, entityID, ErrInconsistent)
		}
		return err
	}
	return nil
}
