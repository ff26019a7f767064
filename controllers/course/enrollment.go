package controllers

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check if course exists and is published
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Check if user is already enrolled
	var existingEnrollment courseModels.CourseEnrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	// Create enrollment. Payment reconciliation lives with the provider
	// webhook; a free or comped course goes straight to PAID.
	enrollment := courseModels.CourseEnrollment{
		UserID:   userID,
		CourseID: uint(courseID),
		Status:   courseModels.PaymentPaid,
		Amount:   int64(course.Price * 100),
	}

	// Save to database with transaction
	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

func GetEnrollments(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var enrollments []courseModels.CourseEnrollment
	if err := database.Database.Db.Where("user_id = ? AND status = ? AND is_deleted = ?", userID, courseModels.PaymentPaid, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	// Attach per-course completion state to each enrollment
	type EnrollmentWithProgress struct {
		courseModels.CourseEnrollment
		Course            courseModels.Course `json:"course"`
		CompletionPercent float64             `json:"completion_percent"`
		NextSubject       *progress.ChildRef  `json:"next_subject"`
		IsCompleted       bool                `json:"is_completed"`
	}

	result := make([]EnrollmentWithProgress, 0, len(enrollments))
	for _, enrollment := range enrollments {
		item := EnrollmentWithProgress{CourseEnrollment: enrollment}

		if err := database.Database.Db.Where("id = ?", enrollment.CourseID).First(&item.Course).Error; err != nil {
			log.Printf("[ENROLLMENT] course %d missing for enrollment %d (user %d): %v", enrollment.CourseID, enrollment.ID, userID, err)
			continue
		}

		percent, err := progress.CompletionPercent(database.Database.Db, userID, courseModels.EntityCourse, enrollment.CourseID)
		if err == nil {
			item.CompletionPercent = percent
		}

		next, err := progress.NextUnfinishedSubject(database.Database.Db, userID, enrollment.CourseID)
		if err == nil {
			item.NextSubject = next
		}

		record, err := progress.Get(database.Database.Db, userID, courseModels.EntityCourse, enrollment.CourseID)
		if err == nil && record.Status == courseModels.StatusCompleted {
			item.IsCompleted = true
		}

		result = append(result, item)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
