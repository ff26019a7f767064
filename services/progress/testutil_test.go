package progress

import (
	"fmt"
	"testing"

	courseModels "lms/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// unique shared-cache name so parallel tests never see each other
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Subject{},
		&courseModels.Unit{},
		&courseModels.Content{},
		&courseModels.UserCourse{},
		&courseModels.UserSubject{},
		&courseModels.UserUnit{},
		&courseModels.UserContent{},
		&courseModels.CourseEnrollment{},
	))
	return db
}

type testHierarchy struct {
	CourseID uint
	Subjects []uint
	Units    map[uint][]uint // subject -> units
	Contents map[uint][]uint // unit -> contents
}

// seedHierarchy builds one published course with the given fan-out at each
// level, order_index following creation order.
func seedHierarchy(t *testing.T, db *gorm.DB, subjectCount, unitsPerSubject, contentsPerUnit int) *testHierarchy {
	t.Helper()

	course := courseModels.Course{Title: "Go from scratch", CompletionTime: 40, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	h := &testHierarchy{
		CourseID: course.ID,
		Units:    make(map[uint][]uint),
		Contents: make(map[uint][]uint),
	}

	for s := 0; s < subjectCount; s++ {
		subject := courseModels.Subject{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Subject %d", s+1),
			OrderIndex:  s + 1,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&subject).Error)
		h.Subjects = append(h.Subjects, subject.ID)

		for u := 0; u < unitsPerSubject; u++ {
			unit := courseModels.Unit{
				SubjectID:   subject.ID,
				Title:       fmt.Sprintf("Unit %d.%d", s+1, u+1),
				OrderIndex:  u + 1,
				IsPublished: true,
			}
			require.NoError(t, db.Create(&unit).Error)
			h.Units[subject.ID] = append(h.Units[subject.ID], unit.ID)

			for c := 0; c < contentsPerUnit; c++ {
				content := courseModels.Content{
					UnitID:      unit.ID,
					Title:       fmt.Sprintf("Content %d.%d.%d", s+1, u+1, c+1),
					OrderIndex:  c + 1,
					IsPublished: true,
				}
				require.NoError(t, db.Create(&content).Error)
				h.Contents[unit.ID] = append(h.Contents[unit.ID], content.ID)
			}
		}
	}
	return h
}

func enrollUser(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	enrollment := courseModels.CourseEnrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   courseModels.PaymentPaid,
	}
	require.NoError(t, db.Create(&enrollment).Error)
}

// allContents flattens the hierarchy's content IDs in authored order.
func (h *testHierarchy) allContents() []uint {
	var ids []uint
	for _, subjectID := range h.Subjects {
		for _, unitID := range h.Units[subjectID] {
			ids = append(ids, h.Contents[unitID]...)
		}
	}
	return ids
}
