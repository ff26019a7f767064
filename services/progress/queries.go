package progress

import (
	"errors"
	"math"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ChildStatus pairs a child entity with the user's status for it.
// Children with no progress record report NOT_STARTED.
type ChildStatus struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
	Status     string `json:"status"`
}

// CourseSummary is the read-side view of one user's standing in a course.
type CourseSummary struct {
	Record            *Record       `json:"record"` // nil when the user never started the course
	TotalSubjects     int           `json:"total_subjects"`
	CompletedSubjects int           `json:"completed_subjects"`
	CompletionPercent float64       `json:"completion_percent"`
	NextSubject       *ChildRef     `json:"next_subject"`
	Subjects          []ChildStatus `json:"subjects"`
}

// CourseStats aggregates a user's progress across all their courses.
type CourseStats struct {
	CoursesEnrolled   int64 `json:"courses_enrolled"`
	CoursesCompleted  int64 `json:"courses_completed"`
	SubjectsCompleted int64 `json:"subjects_completed"`
	HoursLearned      int64 `json:"hours_learned"`
}

// CompletionPercent returns the user's completion percentage over the
// published children of the given parent, rounded to two decimals. A
// parent with no published children reports 0, never an error.
func CompletionPercent(db *gorm.DB, userID uint, parentType string, parentID uint) (float64, error) {
	children, err := ListPublishedChildren(db, parentType, parentID)
	if err != nil {
		return 0, err
	}
	if len(children) == 0 {
		return 0, nil
	}

	childType, err := ChildLevel(parentType)
	if err != nil {
		return 0, err
	}
	childIDs := make([]uint, len(children))
	for i, child := range children {
		childIDs[i] = child.ID
	}
	completed, err := completedChildIDs(db, userID, childType, childIDs)
	if err != nil {
		return 0, err
	}

	percent := float64(len(completed)) / float64(len(children)) * 100
	return math.Round(percent*100) / 100, nil
}

// NextUnfinished returns the lowest-order published child of the parent
// for which the user has no COMPLETED record, or nil when everything is
// complete (or nothing is published).
func NextUnfinished(db *gorm.DB, userID uint, parentType string, parentID uint) (*ChildRef, error) {
	children, err := ListPublishedChildren(db, parentType, parentID)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}

	childType, err := ChildLevel(parentType)
	if err != nil {
		return nil, err
	}
	childIDs := make([]uint, len(children))
	for i, child := range children {
		childIDs[i] = child.ID
	}
	completed, err := completedChildIDs(db, userID, childType, childIDs)
	if err != nil {
		return nil, err
	}

	// children are already ordered by order_index ascending
	for i := range children {
		if !completed[children[i].ID] {
			return &children[i], nil
		}
	}
	return nil, nil
}

// NextUnfinishedSubject resolves the next subject a user should pick up in
// a course.
func NextUnfinishedSubject(db *gorm.DB, userID, courseID uint) (*ChildRef, error) {
	return NextUnfinished(db, userID, courseModels.EntityCourse, courseID)
}

// NextUnfinishedUnit resolves the next unit within a subject.
func NextUnfinishedUnit(db *gorm.DB, userID, subjectID uint) (*ChildRef, error) {
	return NextUnfinished(db, userID, courseModels.EntitySubject, subjectID)
}

// NextUnfinishedContent resolves the next content item within a unit.
func NextUnfinishedContent(db *gorm.DB, userID, unitID uint) (*ChildRef, error) {
	return NextUnfinished(db, userID, courseModels.EntityUnit, unitID)
}

// ChildStatuses lists every published child of a parent with the user's
// status for each.
func ChildStatuses(db *gorm.DB, userID uint, parentType string, parentID uint) ([]ChildStatus, error) {
	children, err := ListPublishedChildren(db, parentType, parentID)
	if err != nil {
		return nil, err
	}

	childType, err := ChildLevel(parentType)
	if err != nil {
		return nil, err
	}
	model, column, err := levelTable(childType)
	if err != nil {
		return nil, err
	}

	// one IN query for all records; children without one stay NOT_STARTED
	statusByID := make(map[uint]string)
	if len(children) > 0 {
		childIDs := make([]uint, len(children))
		for i, child := range children {
			childIDs[i] = child.ID
		}

		var rows []struct {
			EntityID uint
			Status   string
		}
		if err := db.Model(model).
			Select(column+" as entity_id, status").
			Where("user_id = ? AND "+column+" IN ?", userID, childIDs).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			statusByID[row.EntityID] = row.Status
		}
	}

	statuses := make([]ChildStatus, len(children))
	for i, child := range children {
		status := courseModels.StatusNotStarted
		if s, ok := statusByID[child.ID]; ok {
			status = s
		}
		statuses[i] = ChildStatus{
			ID:         child.ID,
			Title:      child.Title,
			OrderIndex: child.OrderIndex,
			Status:     status,
		}
	}
	return statuses, nil
}

// GetCourseSummary assembles the per-course progress view: the user's
// course record (if any), subject counts, completion percent and the next
// unfinished subject. Missing data degrades to zeros, never to an error.
func GetCourseSummary(db *gorm.DB, userID, courseID uint) (*CourseSummary, error) {
	if _, err := entityCompletionTime(db, courseModels.EntityCourse, courseID); err != nil {
		return nil, err
	}

	record, err := Get(db, userID, courseModels.EntityCourse, courseID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	subjects, err := ChildStatuses(db, userID, courseModels.EntityCourse, courseID)
	if err != nil {
		return nil, err
	}
	completedCount := 0
	for _, subject := range subjects {
		if subject.Status == courseModels.StatusCompleted {
			completedCount++
		}
	}

	percent := 0.0
	if len(subjects) > 0 {
		percent = math.Round(float64(completedCount)/float64(len(subjects))*100*100) / 100
	}

	next, err := NextUnfinishedSubject(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseSummary{
		Record:            record,
		TotalSubjects:     len(subjects),
		CompletedSubjects: completedCount,
		CompletionPercent: percent,
		NextSubject:       next,
		Subjects:          subjects,
	}, nil
}

// GetUserStats aggregates enrollment and completion counts for a user's
// dashboard.
func GetUserStats(db *gorm.DB, userID uint) (*CourseStats, error) {
	stats := &CourseStats{}

	if err := db.Model(&courseModels.CourseEnrollment{}).
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, courseModels.PaymentPaid, false).
		Count(&stats.CoursesEnrolled).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&courseModels.UserCourse{}).
		Where("user_id = ? AND status = ?", userID, courseModels.StatusCompleted).
		Count(&stats.CoursesCompleted).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&courseModels.UserSubject{}).
		Where("user_id = ? AND status = ?", userID, courseModels.StatusCompleted).
		Count(&stats.SubjectsCompleted).Error; err != nil {
		return nil, err
	}

	// Hours learned = authored completion_time summed over completed courses
	var hours *int64
	if err := db.Model(&courseModels.UserCourse{}).
		Select("SUM(courses.completion_time)").
		Joins("JOIN courses ON courses.id = user_courses.course_id").
		Where("user_courses.user_id = ? AND user_courses.status = ?", userID, courseModels.StatusCompleted).
		Scan(&hours).Error; err != nil {
		return nil, err
	}
	if hours != nil {
		stats.HoursLearned = *hours
	}
	return stats, nil
}
