package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Hierarchy authoring
	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Post("/:courseId/subject", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), validators.CourseID(), validators.CreateSubject(), controllers.AdminCreateSubject)

	subjectGroup := app.Group("/admin/subject")
	subjectGroup.Post("/:subjectId/unit", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), validators.SubjectID(), validators.CreateUnit(), controllers.AdminCreateUnit)

	unitGroup := app.Group("/admin/unit")
	unitGroup.Post("/:unitId/content", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), validators.UnitID(), validators.CreateContent(), controllers.AdminCreateContent)

	// MCQ authoring
	contentGroup := app.Group("/admin/content")
	contentGroup.Post("/:contentId/mcq", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), validators.AddMCQOption(), controllers.AdminAddMCQOption)

	// Publishing (any level)
	publishGroup := app.Group("/admin/publish")
	publishGroup.Post("/:entityType/:entityId", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), validators.PublishEntity(), controllers.AdminPublishEntity)
}
