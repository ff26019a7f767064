package progressValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// EntityParams parses the :entityType/:entityId route pair into Locals
func EntityParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		entityType := strings.ToUpper(strings.TrimSpace(c.Params("entityType")))
		switch entityType {
		case courseModels.EntityCourse, courseModels.EntitySubject, courseModels.EntityUnit, courseModels.EntityContent:
		default:
			errors["entity_type"] = "Entity type must be COURSE, SUBJECT, UNIT or CONTENT!"
		}

		idStr := strings.TrimSpace(c.Params("entityId"))
		entityID, err := strconv.Atoi(idStr)
		if err != nil || entityID <= 0 {
			errors["entity_id"] = "A valid entity ID is required in the URL!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("entityType", entityType)
		c.Locals("entityID", entityID)
		return c.Next()
	}
}

// ContentID parses the :contentId route parameter into Locals
func ContentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("contentId"))
		contentID, err := strconv.Atoi(idStr)
		if err != nil || contentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid content ID is required in the URL!", nil)
		}

		c.Locals("contentID", contentID)
		return c.Next()
	}
}

// ParentPercentParams restricts percent lookups to parent levels, since
// content has no children to aggregate over
func ParentPercentParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		entityType := strings.ToUpper(strings.TrimSpace(c.Params("entityType")))
		switch entityType {
		case courseModels.EntityCourse, courseModels.EntitySubject, courseModels.EntityUnit:
		default:
			errors["entity_type"] = "Entity type must be COURSE, SUBJECT or UNIT!"
		}

		idStr := strings.TrimSpace(c.Params("entityId"))
		entityID, err := strconv.Atoi(idStr)
		if err != nil || entityID <= 0 {
			errors["entity_id"] = "A valid entity ID is required in the URL!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("entityType", entityType)
		c.Locals("entityID", entityID)
		return c.Next()
	}
}
