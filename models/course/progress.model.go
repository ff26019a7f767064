package course

import (
	"time"

	"gorm.io/gorm"
)

// UserCourse tracks a user's progress through a course. One row per
// (user, course); records are mutated in place and never deleted.
type UserCourse struct {
	gorm.Model
	UserID                 uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID               uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	Status                 string     `json:"status" gorm:"default:'NOT_STARTED'"`
	ExpectedCompletionTime int        `json:"expected_completion_time" gorm:"default:0"`
	StartedAt              time.Time  `json:"started_at"`
	CompletedAt            *time.Time `json:"completed_at"`
}

// UserSubject tracks a user's progress through a subject
type UserSubject struct {
	gorm.Model
	UserID                 uint       `json:"user_id" gorm:"uniqueIndex:idx_user_subject;not null"`
	SubjectID              uint       `json:"subject_id" gorm:"uniqueIndex:idx_user_subject;not null"`
	Status                 string     `json:"status" gorm:"default:'NOT_STARTED'"`
	ExpectedCompletionTime int        `json:"expected_completion_time" gorm:"default:0"`
	StartedAt              time.Time  `json:"started_at"`
	CompletedAt            *time.Time `json:"completed_at"`
}

// UserUnit tracks a user's progress through a unit
type UserUnit struct {
	gorm.Model
	UserID                 uint       `json:"user_id" gorm:"uniqueIndex:idx_user_unit;not null"`
	UnitID                 uint       `json:"unit_id" gorm:"uniqueIndex:idx_user_unit;not null"`
	Status                 string     `json:"status" gorm:"default:'NOT_STARTED'"`
	ExpectedCompletionTime int        `json:"expected_completion_time" gorm:"default:0"`
	StartedAt              time.Time  `json:"started_at"`
	CompletedAt            *time.Time `json:"completed_at"`
}

// UserContent tracks a user's progress through a single content item
type UserContent struct {
	gorm.Model
	UserID                 uint       `json:"user_id" gorm:"uniqueIndex:idx_user_content;not null"`
	ContentID              uint       `json:"content_id" gorm:"uniqueIndex:idx_user_content;not null"`
	Status                 string     `json:"status" gorm:"default:'NOT_STARTED'"`
	ExpectedCompletionTime int        `json:"expected_completion_time" gorm:"default:0"`
	StartedAt              time.Time  `json:"started_at"`
	CompletedAt            *time.Time `json:"completed_at"`
}
