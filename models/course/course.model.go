package course

import "gorm.io/gorm"

// Completion status for user progress records
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Entity types within the learning hierarchy
const (
	EntityCourse  = "COURSE"
	EntitySubject = "SUBJECT"
	EntityUnit    = "UNIT"
	EntityContent = "CONTENT"
)

// Course represents a learning course, the root of the hierarchy
type Course struct {
	gorm.Model
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Instructor     string  `json:"instructor"`
	Level          string  `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, EXPERT
	Price          float64 `json:"price" gorm:"default:0"`
	CompletionTime int     `json:"completion_time" gorm:"default:0"` // expected hours
	ImageURL       string  `json:"image_url"`
	IsPublished    bool    `json:"is_published" gorm:"default:false"`
	IsDeleted      bool    `gorm:"default:false"`
}

// Subject represents a section within a course
type Subject struct {
	gorm.Model
	CourseID       uint   `json:"course_id" gorm:"index;not null"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Objectives     string `json:"objectives" gorm:"type:text"`
	CompletionTime int    `json:"completion_time" gorm:"default:0"`
	OrderIndex     int    `json:"order_index" gorm:"default:0"` // Subject order in course
	IsPublished    bool   `json:"is_published" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}

// Unit represents a lesson block within a subject
type Unit struct {
	gorm.Model
	SubjectID      uint   `json:"subject_id" gorm:"index;not null"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	CompletionTime int    `json:"completion_time" gorm:"default:0"`
	OrderIndex     int    `json:"order_index" gorm:"default:0"` // Unit order in subject
	IsPublished    bool   `json:"is_published" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}

// Content represents a single content item within a unit
type Content struct {
	gorm.Model
	UnitID         uint   `json:"unit_id" gorm:"index;not null"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ContentType    string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, IMAGE, CODE, MCQ
	FileURL        string `json:"file_url"`                           // For VIDEO and IMAGE types
	TextContent    string `json:"text_content" gorm:"type:text"`      // For TEXT type
	CompletionTime int    `json:"completion_time" gorm:"default:0"`
	OrderIndex     int    `json:"order_index" gorm:"default:0"` // Order within unit
	IsPublished    bool   `json:"is_published" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}
