package progress

import (
	"testing"
	"time"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 2)
	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]

	err := CreateIfAbsent(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)

	record, err := Get(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusInProgress, record.Status)
	assert.False(t, record.StartedAt.IsZero())
	assert.Nil(t, record.CompletedAt)

	// duplicate create is a conflict, not an overwrite
	err = CreateIfAbsent(db, 1, courseModels.EntityContent, contentID)
	assert.ErrorIs(t, err, ErrConflict)

	// a different user gets their own record
	require.NoError(t, CreateIfAbsent(db, 2, courseModels.EntityContent, contentID))
}

func TestCreateIfAbsentUnknownEntity(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db, 1, 1, 1)

	err := CreateIfAbsent(db, 1, courseModels.EntityContent, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissingRecord(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)

	_, err := Get(db, 1, courseModels.EntityCourse, h.CourseID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateNeverCreates(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	now := time.Now()

	err := Update(db, 1, courseModels.EntityCourse, h.CourseID, courseModels.StatusCompleted, &now)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&courseModels.UserCourse{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateSetsCompletedAt(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]

	require.NoError(t, CreateIfAbsent(db, 1, courseModels.EntityContent, contentID))

	now := time.Now()
	require.NoError(t, Update(db, 1, courseModels.EntityContent, contentID, courseModels.StatusCompleted, &now))

	record, err := Get(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)
	assert.WithinDuration(t, now, *record.CompletedAt, time.Second)
}

func TestExpectedCompletionTimeCopied(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	require.NoError(t, CreateIfAbsent(db, 1, courseModels.EntityCourse, h.CourseID))

	record, err := Get(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 40, record.ExpectedCompletionTime)
}

func TestMarkCompletedGuardsCompletedRows(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]

	require.NoError(t, CreateIfAbsent(db, 1, courseModels.EntityContent, contentID))

	first := time.Now()
	require.NoError(t, MarkCompleted(db, 1, courseModels.EntityContent, contentID, first))

	// re-applying the transition matches zero rows
	err := MarkCompleted(db, 1, courseModels.EntityContent, contentID, first.Add(time.Hour))
	assert.ErrorIs(t, err, ErrConflict)

	// a missing record is also zero rows, never an insert
	err = MarkCompleted(db, 2, courseModels.EntityContent, contentID, first)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = Get(db, 2, courseModels.EntityContent, contentID)
	assert.ErrorIs(t, err, ErrNotFound)
}
