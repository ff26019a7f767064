package courseValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func ContentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "contentId", "contentID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid content ID is required in the URL!", nil)
		}
		return c.Next()
	}
}

// AddMCQOption validates a new answer option for an MCQ content
func AddMCQOption() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "contentId", "contentID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid content ID is required in the URL!", nil)
		}

		reqData := new(struct {
			OptionText string `json:"option_text"`
			IsCorrect  bool   `json:"is_correct"`
			OrderIndex int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.OptionText = strings.TrimSpace(reqData.OptionText)
		if reqData.OptionText == "" {
			errors["option_text"] = "Option text is required!"
		} else if len(reqData.OptionText) > 500 {
			errors["option_text"] = "Option text must not exceed 500 characters!"
		}
		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOption", reqData)
		return c.Next()
	}
}

// SubmitMCQ validates an answer submission
func SubmitMCQ() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := idParam(c, "contentId", "contentID"); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid content ID is required in the URL!", nil)
		}

		reqData := new(struct {
			SelectedOptionIDs []uint `json:"selected_option_ids"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.SelectedOptionIDs) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"selected_option_ids": "Please select at least one option!",
			})
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
