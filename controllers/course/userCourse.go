package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// GetCourses lists all published courses
func GetCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_published = ? AND is_deleted = ?", true, false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseDetails gets course details with subjects and the caller's
// per-subject progress status
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Check if user is enrolled
	isEnrolled, err := progress.IsEnrolled(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}

	subjects, err := progress.ChildStatuses(database.Database.Db, userID, courseModels.EntityCourse, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subjects!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      course,
		"subjects":    subjects,
		"is_enrolled": isEnrolled,
	})
}

// GetSubjectDetails gets a subject's units with the caller's progress and
// per-unit completion percent
func GetSubjectDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	subjectID := c.Locals("subjectID").(int)

	var subject courseModels.Subject
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", subjectID, false, true).First(&subject).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subject not found!", nil)
	}

	// Enrollment gate on the owning course
	courseID, err := progress.GetParent(database.Database.Db, courseModels.EntitySubject, uint(subjectID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subject not found!", nil)
	}
	isEnrolled, err := progress.IsEnrolled(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}
	if !isEnrolled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	units, err := progress.ChildStatuses(database.Database.Db, userID, courseModels.EntitySubject, uint(subjectID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch units!", nil)
	}

	percent, err := progress.CompletionPercent(database.Database.Db, userID, courseModels.EntitySubject, uint(subjectID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subject details fetched successfully!", fiber.Map{
		"subject":            subject,
		"units":              units,
		"completion_percent": percent,
	})
}

// GetUnitContents gets a unit's contents with the caller's per-content status
func GetUnitContents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	unitID := c.Locals("unitID").(int)

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", unitID, false, true).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	contents, err := progress.ChildStatuses(database.Database.Db, userID, courseModels.EntityUnit, uint(unitID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch contents!", nil)
	}

	next, err := progress.NextUnfinishedContent(database.Database.Db, userID, uint(unitID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve next content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unit contents fetched successfully!", fiber.Map{
		"unit":         unit,
		"contents":     contents,
		"next_content": next,
	})
}
