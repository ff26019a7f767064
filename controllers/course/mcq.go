package controllers

import (
	"encoding/json"
	"errors"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/progress"

	progressController "lms/controllers/progress"

	"github.com/gofiber/fiber/v2"
)

// AdminAddMCQOption attaches an answer option to an MCQ content item
func AdminAddMCQOption(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	var content courseModels.Content
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if content.ContentType != "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	reqData, ok := c.Locals("validatedOption").(*struct {
		OptionText string `json:"option_text"`
		IsCorrect  bool   `json:"is_correct"`
		OrderIndex int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.MCQOption{}).Where("content_id = ? AND is_deleted = ?", contentID, false).Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	option := courseModels.MCQOption{
		ContentID:  uint(contentID),
		OptionText: reqData.OptionText,
		IsCorrect:  reqData.IsCorrect,
		OrderIndex: orderIndex,
	}

	if err := database.Database.Db.Create(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Option added successfully!", option)
}

// GetMCQOptions lists the options of an MCQ content for taking the quiz.
// The correct flags stay server-side.
func GetMCQOptions(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	var content courseModels.Content
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", contentID, false, true).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if content.ContentType != "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	type optionView struct {
		ID         uint   `json:"id"`
		OptionText string `json:"option_text"`
		OrderIndex int    `json:"order_index"`
	}
	var options []optionView
	if err := database.Database.Db.Model(&courseModels.MCQOption{}).
		Select("id, option_text, order_index").
		Where("content_id = ? AND is_deleted = ?", contentID, false).
		Order("order_index asc").
		Find(&options).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch options!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Options fetched successfully!", fiber.Map{
		"content": content,
		"options": options,
	})
}

// evaluateMCQ scores a selection against the correct option set. Full
// marks require exactly the correct options, no more, no fewer.
func evaluateMCQ(selected []uint, correct []courseModels.MCQOption) (score int, isCorrect bool) {
	correctIDs := make(map[uint]bool)
	for _, opt := range correct {
		correctIDs[opt.ID] = true
	}

	for _, id := range selected {
		if correctIDs[id] {
			score++
		}
	}

	isCorrect = score == len(correct) && len(selected) == len(correct)
	return score, isCorrect
}

// SubmitMCQAnswer evaluates a student's answer, records the attempt, and
// on a fully correct answer feeds the content into the completion cascade
func SubmitMCQAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.Content
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", contentID, false, true).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if content.ContentType != "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	// Enrollment gate on the owning course
	_, _, courseID, err := progress.CourseOfContent(database.Database.Db, uint(contentID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	isEnrolled, err := progress.IsEnrolled(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}
	if !isEnrolled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		SelectedOptionIDs []uint `json:"selected_option_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var correctOptions []courseModels.MCQOption
	if err := database.Database.Db.
		Where("content_id = ? AND is_correct = ? AND is_deleted = ?", contentID, true, false).
		Find(&correctOptions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch options!", nil)
	}

	score, isCorrect := evaluateMCQ(reqData.SelectedOptionIDs, correctOptions)

	var attemptCount int64
	database.Database.Db.Model(&courseModels.MCQAttempt{}).
		Where("user_id = ? AND content_id = ? AND is_deleted = ?", userID, contentID, false).
		Count(&attemptCount)

	selectedJSON, _ := json.Marshal(reqData.SelectedOptionIDs)

	attempt := courseModels.MCQAttempt{
		UserID:          userID,
		ContentID:       uint(contentID),
		SelectedOptions: string(selectedJSON),
		Score:           score,
		MaxScore:        len(correctOptions),
		IsCorrect:       isCorrect,
		AttemptNumber:   int(attemptCount) + 1,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answer!", nil)
	}

	// A fully correct answer completes the content through the cascade.
	// Already-completed is fine here: re-attempts stay allowed.
	if isCorrect {
		if err := progress.StartEntity(database.Database.Db, userID, courseModels.EntityContent, uint(contentID)); err != nil && !errors.Is(err, progress.ErrConflict) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
		}
		if _, err := progressController.FinishContent(userID, uint(contentID)); err != nil && !errors.Is(err, progress.ErrConflict) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", fiber.Map{
		"attempt":    attempt,
		"is_correct": isCorrect,
		"score":      score,
		"max_score":  len(correctOptions),
	})
}
