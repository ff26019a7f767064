package courseValidator

import (
	"regexp"
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var tagRegex = regexp.MustCompile(`[<>{}]`)

// idParam parses a positive integer route parameter into Locals
func idParam(c *fiber.Ctx, param, local string) (int, bool) {
	idStr := strings.TrimSpace(c.Params(param))
	if idStr == "" {
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, false
	}
	c.Locals(local, id)
	return id, true
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "courseId", "courseID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid course ID is required in the URL!", nil)
		}
		return c.Next()
	}
}

func SubjectID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "subjectId", "subjectID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid subject ID is required in the URL!", nil)
		}
		return c.Next()
	}
}

func UnitID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "unitId", "unitID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid unit ID is required in the URL!", nil)
		}
		return c.Next()
	}
}

// validateTitle sanitizes and checks a title field, writing into errors
func validateTitle(title string, errors map[string]string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		errors["title"] = "Title is required!"
	} else if len(title) < 3 {
		errors["title"] = "Title must be at least 3 characters long!"
	} else if len(title) > 100 {
		errors["title"] = "Title must not exceed 100 characters!"
	} else if tagRegex.MatchString(title) {
		errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
	}
	return title
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string  `json:"title"`
			Description    string  `json:"description"`
			Instructor     string  `json:"instructor"`
			Level          string  `json:"level"`
			Price          float64 `json:"price"`
			CompletionTime int     `json:"completion_time"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = validateTitle(reqData.Title, errors)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}
		if reqData.CompletionTime < 0 {
			errors["completion_time"] = "Completion time must not be negative!"
		}
		switch reqData.Level {
		case "", "BEGINNER", "INTERMEDIATE", "EXPERT":
		default:
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or EXPERT!"
		}
		if reqData.Level == "" {
			reqData.Level = "BEGINNER"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func CreateSubject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "courseId", "courseID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid course ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			CompletionTime int    `json:"completion_time"`
			OrderIndex     int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = validateTitle(reqData.Title, errors)
		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubject", reqData)
		return c.Next()
	}
}

func CreateUnit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "subjectId", "subjectID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid subject ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			CompletionTime int    `json:"completion_time"`
			OrderIndex     int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = validateTitle(reqData.Title, errors)
		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUnit", reqData)
		return c.Next()
	}
}

func CreateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "unitId", "unitID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid unit ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			ContentType    string `json:"content_type"`
			TextContent    string `json:"text_content"`
			FileURL        string `json:"file_url"`
			CompletionTime int    `json:"completion_time"`
			OrderIndex     int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = validateTitle(reqData.Title, errors)

		switch reqData.ContentType {
		case "":
			reqData.ContentType = "TEXT"
		case "TEXT", "VIDEO", "IMAGE", "CODE", "MCQ":
		default:
			errors["content_type"] = "Content type must be TEXT, VIDEO, IMAGE, CODE or MCQ!"
		}

		if (reqData.ContentType == "VIDEO" || reqData.ContentType == "IMAGE") && strings.TrimSpace(reqData.FileURL) == "" {
			errors["file_url"] = "File URL is required for VIDEO and IMAGE content!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// PublishEntity validates the publish toggle for any hierarchy level
func PublishEntity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityType := strings.ToUpper(strings.TrimSpace(c.Params("entityType")))
		switch entityType {
		case "COURSE", "SUBJECT", "UNIT", "CONTENT":
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Entity type must be COURSE, SUBJECT, UNIT or CONTENT!", nil)
		}
		c.Locals("entityType", entityType)

		if _, ok := idParam(c, "entityId", "entityID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid entity ID is required in the URL!", nil)
		}

		reqData := new(struct {
			IsPublished *bool `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.IsPublished == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"is_published": "is_published is required!",
			})
		}

		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}
