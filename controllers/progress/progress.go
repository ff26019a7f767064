package progressController

import (
	"errors"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// engineErrorResponse maps engine sentinel errors onto HTTP responses
func engineErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found or not started yet!", nil)
	case errors.Is(err, progress.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already in that state!", nil)
	case errors.Is(err, progress.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	case errors.Is(err, progress.ErrInconsistent):
		log.Printf("[PROGRESS] aborted on invariant violation: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Progress state inconsistent, request aborted!", nil)
	default:
		log.Printf("[PROGRESS] unexpected error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}

// StartEntity creates the caller's progress record for a hierarchy entity,
// bootstrapping any missing ancestor records
func StartEntity(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	entityType := c.Locals("entityType").(string)
	entityID := c.Locals("entityID").(int)

	if err := progress.StartEntity(database.Database.Db, userID, entityType, uint(entityID)); err != nil {
		return engineErrorResponse(c, err)
	}

	record, err := progress.Get(database.Database.Db, userID, entityType, uint(entityID))
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Started successfully!", record)
}

// CompleteContent marks a content item complete and runs the upward
// cascade. Side effects (gamification events, certificate, email) fire
// only after the transaction committed.
func CompleteContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	result, err := FinishContent(userID, uint(contentID))
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content completed successfully!", result)
}

// FinishContent runs the completion cascade for one content item and, when
// it committed, fires the after-commit side effects. Shared by the direct
// completion endpoint and the assessment submit path.
func FinishContent(userID, contentID uint) (*progress.CompleteResult, error) {
	result, err := progress.CompleteContent(database.Database.Db, userID, contentID)
	if err != nil {
		return nil, err
	}

	if len(result.Transitions) > 0 {
		utils.SendCompletionEvents(result.Transitions)
	}

	if result.CourseCompleted {
		go issueCertificateAndCongratulate(userID, contentID)
	}
	return result, nil
}

// issueCertificateAndCongratulate runs outside the cascade transaction; a
// failure here never rolls back progress state.
func issueCertificateAndCongratulate(userID, contentID uint) {
	db := database.Database.Db

	_, _, courseID, err := progress.CourseOfContent(db, contentID)
	if err != nil {
		log.Printf("[CERTIFICATE] failed to resolve course for content %d: %v", contentID, err)
		return
	}

	var course courseModels.Course
	if err := db.Where("id = ?", courseID).First(&course).Error; err != nil {
		log.Printf("[CERTIFICATE] course %d not found: %v", courseID, err)
		return
	}

	certificate := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: uuid.NewString(),
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&certificate).Error; err != nil {
		log.Printf("[CERTIFICATE] failed to issue certificate for user %d, course %d: %v", userID, courseID, err)
		return
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return
	}
	utils.SendCourseCompletedEmail(user.Email, user.Name, course.Title, certificate.CertificateNumber)
}

// GetCourseProgress returns the caller's standing in a course: status,
// completion percent, subject breakdown and the next unfinished subject
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	summary, err := progress.GetCourseSummary(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", summary)
}

// GetNextSubject resolves the next subject the caller should pick up
func GetNextSubject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	next, err := progress.NextUnfinishedSubject(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Next subject resolved successfully!", fiber.Map{
		"next_subject": next, // null when everything is complete
	})
}

// GetEntityPercent returns the caller's completion percent over the
// published children of any hierarchy entity
func GetEntityPercent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	entityType := c.Locals("entityType").(string)
	entityID := c.Locals("entityID").(int)

	percent, err := progress.CompletionPercent(database.Database.Db, userID, entityType, uint(entityID))
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion percent fetched successfully!", fiber.Map{
		"entity_type":        entityType,
		"entity_id":          entityID,
		"completion_percent": percent,
	})
}

// GetStats returns the caller's cross-course dashboard numbers
func GetStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	stats, err := progress.GetUserStats(database.Database.Db, userID)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", stats)
}
