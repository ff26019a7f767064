package progress

import (
	"testing"
	"time"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEntityRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]

	err := StartEntity(db, 1, courseModels.EntityContent, contentID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestStartContentBootstrapsAncestors(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 2, 2, 2)
	enrollUser(t, db, 1, h.CourseID)

	subjectID := h.Subjects[0]
	unitID := h.Units[subjectID][0]
	contentID := h.Contents[unitID][0]

	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))

	for _, check := range []struct {
		entityType string
		entityID   uint
	}{
		{courseModels.EntityCourse, h.CourseID},
		{courseModels.EntitySubject, subjectID},
		{courseModels.EntityUnit, unitID},
		{courseModels.EntityContent, contentID},
	} {
		record, err := Get(db, 1, check.entityType, check.entityID)
		require.NoError(t, err, check.entityType)
		assert.Equal(t, courseModels.StatusInProgress, record.Status, check.entityType)
	}

	// second start of the same content is a conflict, ancestors untouched
	err := StartEntity(db, 1, courseModels.EntityContent, contentID)
	assert.ErrorIs(t, err, ErrConflict)

	// sibling content start reuses the existing ancestors
	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, h.Contents[unitID][1]))
}

func TestCompleteContentNotStarted(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]

	_, err := CompleteContent(db, 1, contentID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteContentUnknownContent(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db, 1, 1, 1)

	_, err := CompleteContent(db, 1, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteLastContentTransitionsUnitOnly(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 2, 2, 2)
	enrollUser(t, db, 1, h.CourseID)

	subjectID := h.Subjects[0]
	unitID := h.Units[subjectID][0]
	first, second := h.Contents[unitID][0], h.Contents[unitID][1]

	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, first))
	result, err := CompleteContent(db, 1, first)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.False(t, result.UnitCompleted)
	assert.Empty(t, result.Transitions)

	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, second))
	result, err = CompleteContent(db, 1, second)
	require.NoError(t, err)
	assert.True(t, result.UnitCompleted)
	assert.False(t, result.SubjectCompleted)
	assert.False(t, result.CourseCompleted)
	require.Len(t, result.Transitions, 1)
	assert.Equal(t, courseModels.EntityUnit, result.Transitions[0].EntityType)
	assert.Equal(t, unitID, result.Transitions[0].EntityID)
	assert.NotEmpty(t, result.Transitions[0].EventID)

	unitRecord, err := Get(db, 1, courseModels.EntityUnit, unitID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusCompleted, unitRecord.Status)
	require.NotNil(t, unitRecord.CompletedAt)

	// the sibling unit must be untouched
	otherUnit, err := Get(db, 1, courseModels.EntityUnit, h.Units[subjectID][1])
	if err == nil {
		assert.NotEqual(t, courseModels.StatusCompleted, otherUnit.Status)
	} else {
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestFullChainCascade(t *testing.T) {
	// 1 course, 2 subjects x 2 units x 2 contents = 8 leaves. Leaves 1-7
	// leave the course IN_PROGRESS; leaf 8 completes unit, subject and
	// course in one call.
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 2, 2, 2)
	enrollUser(t, db, 1, h.CourseID)

	contents := h.allContents()
	require.Len(t, contents, 8)

	for i, contentID := range contents[:7] {
		require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))
		result, err := CompleteContent(db, 1, contentID)
		require.NoError(t, err)
		assert.False(t, result.CourseCompleted, "leaf %d must not complete the course", i+1)

		courseRecord, err := Get(db, 1, courseModels.EntityCourse, h.CourseID)
		require.NoError(t, err)
		assert.Equal(t, courseModels.StatusInProgress, courseRecord.Status)
	}

	last := contents[7]
	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, last))
	result, err := CompleteContent(db, 1, last)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.True(t, result.UnitCompleted)
	assert.True(t, result.SubjectCompleted)
	assert.True(t, result.CourseCompleted)

	require.Len(t, result.Transitions, 3)
	assert.Equal(t, courseModels.EntityUnit, result.Transitions[0].EntityType)
	assert.Equal(t, courseModels.EntitySubject, result.Transitions[1].EntityType)
	assert.Equal(t, courseModels.EntityCourse, result.Transitions[2].EntityType)

	courseRecord, err := Get(db, 1, courseModels.EntityCourse, h.CourseID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusCompleted, courseRecord.Status)
	require.NotNil(t, courseRecord.CompletedAt)
}

func TestDoubleCompletionIsConflictWithNoWrites(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 2)
	enrollUser(t, db, 1, h.CourseID)

	unitID := h.Units[h.Subjects[0]][0]
	contentID := h.Contents[unitID][0]

	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))
	_, err := CompleteContent(db, 1, contentID)
	require.NoError(t, err)

	before, err := Get(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)

	_, err = CompleteContent(db, 1, contentID)
	assert.ErrorIs(t, err, ErrConflict)

	after, err := Get(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)
	require.NotNil(t, after.CompletedAt)
	assert.Equal(t, before.CompletedAt.UnixNano(), after.CompletedAt.UnixNano(), "completed_at must not move")
}

func TestUnpublishedUnitDoesNotBlockSubject(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 2, 1)
	enrollUser(t, db, 1, h.CourseID)

	subjectID := h.Subjects[0]
	hiddenUnit := h.Units[subjectID][1]
	require.NoError(t, db.Model(&courseModels.Unit{}).
		Where("id = ?", hiddenUnit).
		Update("is_published", false).Error)

	contentID := h.Contents[h.Units[subjectID][0]][0]
	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))
	result, err := CompleteContent(db, 1, contentID)
	require.NoError(t, err)

	assert.True(t, result.UnitCompleted)
	assert.True(t, result.SubjectCompleted, "unpublished unit must not block the subject")
	assert.True(t, result.CourseCompleted)
}

func TestNeverStartedSiblingCountsAsIncomplete(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 2)
	enrollUser(t, db, 1, h.CourseID)

	unitID := h.Units[h.Subjects[0]][0]
	contentID := h.Contents[unitID][0]

	// sibling content has no record at all
	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))
	result, err := CompleteContent(db, 1, contentID)
	require.NoError(t, err)
	assert.False(t, result.UnitCompleted, "a never-started sibling is incomplete, not inapplicable")
}

func TestMonotonicity(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	enrollUser(t, db, 1, h.CourseID)

	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]
	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))
	_, err := CompleteContent(db, 1, contentID)
	require.NoError(t, err)

	// neither another start nor another completion can regress the record
	err = StartEntity(db, 1, courseModels.EntityContent, contentID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = CompleteContent(db, 1, contentID)
	assert.ErrorIs(t, err, ErrConflict)

	record, err := Get(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusCompleted, record.Status)
}

func TestInconsistentUnitAborts(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 2)
	enrollUser(t, db, 1, h.CourseID)

	unitID := h.Units[h.Subjects[0]][0]
	first, second := h.Contents[unitID][0], h.Contents[unitID][1]

	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, first))
	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, second))

	// corrupt the hierarchy from the outside: unit completed, contents not
	now := time.Now()
	require.NoError(t, db.Model(&courseModels.UserUnit{}).
		Where("user_id = ? AND unit_id = ?", 1, unitID).
		Updates(map[string]interface{}{"status": courseModels.StatusCompleted, "completed_at": now}).Error)

	_, err := CompleteContent(db, 1, first)
	assert.ErrorIs(t, err, ErrInconsistent)

	// the aborted transaction must not have completed the content
	record, err := Get(db, 1, courseModels.EntityContent, first)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusInProgress, record.Status)
	assert.Nil(t, record.CompletedAt)
}

func TestTwoUsersProgressIndependently(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 1)
	enrollUser(t, db, 1, h.CourseID)
	enrollUser(t, db, 2, h.CourseID)

	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]

	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))
	result, err := CompleteContent(db, 1, contentID)
	require.NoError(t, err)
	assert.True(t, result.CourseCompleted)

	// user 2 is untouched by user 1's cascade
	_, err = Get(db, 2, courseModels.EntityCourse, h.CourseID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, StartEntity(db, 2, courseModels.EntityContent, contentID))
	result, err = CompleteContent(db, 2, contentID)
	require.NoError(t, err)
	assert.True(t, result.CourseCompleted)
}

func TestRacingCompletionWriteIsRejected(t *testing.T) {
	// A transaction that read the content as IN_PROGRESS before another
	// completion committed re-issues the completion write after the lock
	// clears. That write must lose on row state, not move completed_at.
	db := setupTestDB(t)
	h := seedHierarchy(t, db, 1, 1, 2)
	enrollUser(t, db, 1, h.CourseID)

	contentID := h.Contents[h.Units[h.Subjects[0]][0]][0]
	require.NoError(t, StartEntity(db, 1, courseModels.EntityContent, contentID))
	_, err := CompleteContent(db, 1, contentID)
	require.NoError(t, err)

	before, err := Get(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)
	require.NotNil(t, before.CompletedAt)

	err = MarkCompleted(db, 1, courseModels.EntityContent, contentID, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrConflict)

	after, err := Get(db, 1, courseModels.EntityContent, contentID)
	require.NoError(t, err)
	require.NotNil(t, after.CompletedAt)
	assert.Equal(t, before.CompletedAt.UnixNano(), after.CompletedAt.UnixNano(), "completed_at must not move")
}
