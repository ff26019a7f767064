package progress

import (
	"errors"
	"fmt"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ChildRef identifies one child entity of a hierarchy node together with
// its authored position.
type ChildRef struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
}

// ChildLevel returns the entity type one level below the given parent type.
func ChildLevel(parentType string) (string, error) {
	switch parentType {
	case courseModels.EntityCourse:
		return courseModels.EntitySubject, nil
	case courseModels.EntitySubject:
		return courseModels.EntityUnit, nil
	case courseModels.EntityUnit:
		return courseModels.EntityContent, nil
	default:
		return "", fmt.Errorf("entity type %s has no children", parentType)
	}
}

// ListPublishedChildren returns the published, non-deleted children of the
// given parent ordered by order_index. Unpublished children are invisible
// to every completeness check.
func ListPublishedChildren(db *gorm.DB, parentType string, parentID uint) ([]ChildRef, error) {
	var children []ChildRef
	var err error
	switch parentType {
	case courseModels.EntityCourse:
		err = db.Model(&courseModels.Subject{}).
			Select("id, title, order_index").
			Where("course_id = ? AND is_published = ? AND is_deleted = ?", parentID, true, false).
			Order("order_index asc").
			Find(&children).Error
	case courseModels.EntitySubject:
		err = db.Model(&courseModels.Unit{}).
			Select("id, title, order_index").
			Where("subject_id = ? AND is_published = ? AND is_deleted = ?", parentID, true, false).
			Order("order_index asc").
			Find(&children).Error
	case courseModels.EntityUnit:
		err = db.Model(&courseModels.Content{}).
			Select("id, title, order_index").
			Where("unit_id = ? AND is_published = ? AND is_deleted = ?", parentID, true, false).
			Order("order_index asc").
			Find(&children).Error
	default:
		return nil, fmt.Errorf("entity type %s has no children", parentType)
	}
	if err != nil {
		return nil, err
	}
	return children, nil
}

// GetParent resolves the identifier of the entity one level above the given
// one. Courses have no parent.
func GetParent(db *gorm.DB, entityType string, entityID uint) (uint, error) {
	var parentID uint
	var err error
	switch entityType {
	case courseModels.EntityContent:
		var content courseModels.Content
		err = db.Select("unit_id").Where("id = ? AND is_deleted = ?", entityID, false).First(&content).Error
		parentID = content.UnitID
	case courseModels.EntityUnit:
		var unit courseModels.Unit
		err = db.Select("subject_id").Where("id = ? AND is_deleted = ?", entityID, false).First(&unit).Error
		parentID = unit.SubjectID
	case courseModels.EntitySubject:
		var subject courseModels.Subject
		err = db.Select("course_id").Where("id = ? AND is_deleted = ?", entityID, false).First(&subject).Error
		parentID = subject.CourseID
	default:
		return 0, fmt.Errorf("entity type %s has no parent", entityType)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%s %d: %w", entityType, entityID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return parentID, nil
}

// entityCompletionTime reads the authored completion_time of an entity.
// It also serves as the existence check for progress creation.
func entityCompletionTime(db *gorm.DB, entityType string, entityID uint) (int, error) {
	var completionTime int
	var err error
	switch entityType {
	case courseModels.EntityCourse:
		var course courseModels.Course
		err = db.Select("completion_time").Where("id = ? AND is_deleted = ?", entityID, false).First(&course).Error
		completionTime = course.CompletionTime
	case courseModels.EntitySubject:
		var subject courseModels.Subject
		err = db.Select("completion_time").Where("id = ? AND is_deleted = ?", entityID, false).First(&subject).Error
		completionTime = subject.CompletionTime
	case courseModels.EntityUnit:
		var unit courseModels.Unit
		err = db.Select("completion_time").Where("id = ? AND is_deleted = ?", entityID, false).First(&unit).Error
		completionTime = unit.CompletionTime
	case courseModels.EntityContent:
		var content courseModels.Content
		err = db.Select("completion_time").Where("id = ? AND is_deleted = ?", entityID, false).First(&content).Error
		completionTime = content.CompletionTime
	default:
		return 0, fmt.Errorf("unknown entity type %s", entityType)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%s %d: %w", entityType, entityID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return completionTime, nil
}

// CourseOfContent walks a content item up to its course, returning every
// ancestor identifier on the way.
func CourseOfContent(db *gorm.DB, contentID uint) (unitID, subjectID, courseID uint, err error) {
	unitID, err = GetParent(db, courseModels.EntityContent, contentID)
	if err != nil {
		return 0, 0, 0, err
	}
	subjectID, err = GetParent(db, courseModels.EntityUnit, unitID)
	if err != nil {
		return 0, 0, 0, err
	}
	courseID, err = GetParent(db, courseModels.EntitySubject, subjectID)
	if err != nil {
		return 0, 0, 0, err
	}
	return unitID, subjectID, courseID, nil
}
