package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalogue browsing
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetCourses)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:courseId/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Drilling into the hierarchy (for enrolled users)
	subjectGroup := app.Group("/subject")
	subjectGroup.Get("/:subjectId", middleware.JWTMiddleware, validators.SubjectID(), controllers.GetSubjectDetails)

	unitGroup := app.Group("/unit")
	unitGroup.Get("/:unitId/contents", middleware.JWTMiddleware, validators.UnitID(), controllers.GetUnitContents)

	// MCQ taking and submission
	contentGroup := app.Group("/content")
	contentGroup.Get("/:contentId/mcq", middleware.JWTMiddleware, validators.ContentID(), controllers.GetMCQOptions)
	contentGroup.Post("/:contentId/mcq/submit", middleware.JWTMiddleware, validators.SubmitMCQ(), controllers.SubmitMCQAnswer)

	// User enrollments
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
}
