package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	courseValidators "lms/validators/course"
	validators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up all progress tracking routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	// Starting and completing
	progressGroup.Post("/:entityType/:entityId/start", middleware.JWTMiddleware, validators.EntityParams(), controllers.StartEntity)
	progressGroup.Post("/content/:contentId/complete", middleware.JWTMiddleware, validators.ContentID(), controllers.CompleteContent)

	// Aggregation queries
	progressGroup.Get("/course/:courseId", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.GetCourseProgress)
	progressGroup.Get("/course/:courseId/next", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.GetNextSubject)
	progressGroup.Get("/:entityType/:entityId/percent", middleware.JWTMiddleware, validators.ParentPercentParams(), controllers.GetEntityPercent)
	progressGroup.Get("/stats", middleware.JWTMiddleware, controllers.GetStats)
}
