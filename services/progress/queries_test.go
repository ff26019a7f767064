package progress

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completeLeaf(t *testing.T, db *gorm.DB, userID, contentID uint) *CompleteResult {
	t.Helper()
	require.NoError(t, StartEntity(db, userID, courseModels.EntityContent, contentID))
	result, err := CompleteContent(db, userID, contentID)
	require.NoError(t, err)
	return result
}

func TestCompletionPercentEmptyCourse(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Empty", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	percent, err := CompletionPercent(db, 1, courseModels.EntityCourse, course.ID)
	require.NoError(t, err)
	assert.Zero(t, percent, "no published subjects must yield 0, not an error")
}

func TestCompletionPercentBoundsAndRounding(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 3, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	percent, err := CompletionPercent(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	assert.Zero(t, percent)

	// complete the first subject (its single unit's single content)
	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[0]][0]][0])

	percent, err = CompletionPercent(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, percent, 0.001, "1/3 rounds to 33.33")
	assert.GreaterOrEqual(t, percent, 0.0)
	assert.LessOrEqual(t, percent, 100.0)

	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[1]][0]][0])
	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[2]][0]][0])

	percent, err = CompletionPercent(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, percent)
}

func TestCompletionPercentIgnoresUnpublished(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 2, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	require.NoError(t, db.Model(&courseModels.Subject{}).
		Where("id = ?", h.Subjects[1]).
		Update("is_published", false).Error)

	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[0]][0]][0])

	percent, err := CompletionPercent(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, percent)
}

func TestNextUnfinishedSubjectOrdering(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 3, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	// nothing completed: lowest order wins
	next, err := NextUnfinishedSubject(db, 1, h.CourseID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, h.Subjects[0], next.ID)

	// completing subject 2 out of order still leaves subject 1 next
	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[1]][0]][0])
	next, err = NextUnfinishedSubject(db, 1, h.CourseID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, h.Subjects[0], next.ID)

	// after subject 1, the gap is closed and subject 3 is next
	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[0]][0]][0])
	next, err = NextUnfinishedSubject(db, 1, h.CourseID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, h.Subjects[2], next.ID)

	// all complete: none
	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[2]][0]][0])
	next, err = NextUnfinishedSubject(db, 1, h.CourseID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextUnfinishedUnitAndContent(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 2, 2)
	enrollUser(t, db, 1, h.CourseID)

	subjectID := h.Subjects[0]
	firstUnit := h.Units[subjectID][0]

	completeLeaf(t, db, 1, h.Contents[firstUnit][0])

	nextContent, err := NextUnfinishedContent(db, 1, firstUnit)
	require.NoError(t, err)
	require.NotNil(t, nextContent)
	assert.Equal(t, h.Contents[firstUnit][1], nextContent.ID)

	nextUnit, err := NextUnfinishedUnit(db, 1, subjectID)
	require.NoError(t, err)
	require.NotNil(t, nextUnit)
	assert.Equal(t, firstUnit, nextUnit.ID, "partially complete unit is still unfinished")
}

func TestChildStatusesDefaultsToNotStarted(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 2, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[0]][0]][0])

	statuses, err := ChildStatuses(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, courseModels.StatusCompleted, statuses[0].Status)
	assert.Equal(t, courseModels.StatusNotStarted, statuses[1].Status)
}

func TestGetCourseSummary(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 2, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	summary, err := GetCourseSummary(db, 1, h.CourseID)
	require.NoError(t, err)
	assert.Nil(t, summary.Record, "course never started")
	assert.Equal(t, 2, summary.TotalSubjects)
	assert.Zero(t, summary.CompletedSubjects)
	assert.Zero(t, summary.CompletionPercent)
	require.NotNil(t, summary.NextSubject)
	assert.Equal(t, h.Subjects[0], summary.NextSubject.ID)

	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[0]][0]][0])

	summary, err = GetCourseSummary(db, 1, h.CourseID)
	require.NoError(t, err)
	require.NotNil(t, summary.Record)
	assert.Equal(t, courseModels.StatusInProgress, summary.Record.Status)
	assert.Equal(t, 1, summary.CompletedSubjects)
	assert.Equal(t, 50.0, summary.CompletionPercent)
	assert.Equal(t, h.Subjects[1], summary.NextSubject.ID)
}

func TestGetCourseSummaryUnknownCourse(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetCourseSummary(db, 1, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserStats(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	stats, err := GetUserStats(db, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.CoursesEnrolled)
	assert.Zero(t, stats.CoursesCompleted)
	assert.Zero(t, stats.HoursLearned)

	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[0]][0]][0])

	stats, err = GetUserStats(db, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.CoursesCompleted)
	assert.EqualValues(t, 1, stats.SubjectsCompleted)
	assert.EqualValues(t, 40, stats.HoursLearned)
}

func TestChildStatusesMixedStates(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 3, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	completeLeaf(t, db, 1, h.Contents[h.Units[h.Subjects[0]][0]][0])
	require.NoError(t, StartEntity(db, 1, courseModels.EntitySubject, h.Subjects[1]))

	statuses, err := ChildStatuses(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, courseModels.StatusCompleted, statuses[0].Status)
	assert.Equal(t, courseModels.StatusInProgress, statuses[1].Status)
	assert.Equal(t, courseModels.StatusNotStarted, statuses[2].Status)

	// another user's records must not leak into the view
	statuses, err = ChildStatuses(db, 2, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.Equal(t, courseModels.StatusNotStarted, s.Status)
	}
}
