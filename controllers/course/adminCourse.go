package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a new course in DRAFT (unpublished) state
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title          string  `json:"title"`
		Description    string  `json:"description"`
		Instructor     string  `json:"instructor"`
		Level          string  `json:"level"`
		Price          float64 `json:"price"`
		CompletionTime int     `json:"completion_time"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:          reqData.Title,
		Description:    reqData.Description,
		Instructor:     reqData.Instructor,
		Level:          reqData.Level,
		Price:          reqData.Price,
		CompletionTime: reqData.CompletionTime,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminCreateSubject creates a new subject in a course
func AdminCreateSubject(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	// Check if course exists
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedSubject").(*struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		CompletionTime int    `json:"completion_time"`
		OrderIndex     int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Get the next order index if not provided
	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Subject{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	subject := courseModels.Subject{
		CourseID:       uint(courseID),
		Title:          reqData.Title,
		Description:    reqData.Description,
		CompletionTime: reqData.CompletionTime,
		OrderIndex:     orderIndex,
	}

	if err := database.Database.Db.Create(&subject).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create subject!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subject created successfully!", subject)
}

// AdminCreateUnit creates a new unit in a subject
func AdminCreateUnit(c *fiber.Ctx) error {
	subjectID := c.Locals("subjectID").(int)

	var subject courseModels.Subject
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", subjectID, false).First(&subject).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subject not found!", nil)
	}

	reqData, ok := c.Locals("validatedUnit").(*struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		CompletionTime int    `json:"completion_time"`
		OrderIndex     int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Unit{}).Where("subject_id = ? AND is_deleted = ?", subjectID, false).Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	unit := courseModels.Unit{
		SubjectID:      uint(subjectID),
		Title:          reqData.Title,
		Description:    reqData.Description,
		CompletionTime: reqData.CompletionTime,
		OrderIndex:     orderIndex,
	}

	if err := database.Database.Db.Create(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create unit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Unit created successfully!", unit)
}

// AdminCreateContent creates a new content item in a unit
func AdminCreateContent(c *fiber.Ctx) error {
	unitID := c.Locals("unitID").(int)

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", unitID, false).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	reqData, ok := c.Locals("validatedContent").(*struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		ContentType    string `json:"content_type"`
		TextContent    string `json:"text_content"`
		FileURL        string `json:"file_url"`
		CompletionTime int    `json:"completion_time"`
		OrderIndex     int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Content{}).Where("unit_id = ? AND is_deleted = ?", unitID, false).Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	content := courseModels.Content{
		UnitID:         uint(unitID),
		Title:          reqData.Title,
		Description:    reqData.Description,
		ContentType:    reqData.ContentType,
		TextContent:    reqData.TextContent,
		FileURL:        reqData.FileURL,
		CompletionTime: reqData.CompletionTime,
		OrderIndex:     orderIndex,
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// AdminPublishEntity toggles the published flag of any hierarchy entity
func AdminPublishEntity(c *fiber.Ctx) error {
	entityType := c.Locals("entityType").(string)
	entityID := c.Locals("entityID").(int)

	reqData, ok := c.Locals("validatedPublish").(*struct {
		IsPublished *bool `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var model interface{}
	switch entityType {
	case courseModels.EntityCourse:
		model = &courseModels.Course{}
	case courseModels.EntitySubject:
		model = &courseModels.Subject{}
	case courseModels.EntityUnit:
		model = &courseModels.Unit{}
	case courseModels.EntityContent:
		model = &courseModels.Content{}
	}

	result := database.Database.Db.Model(model).
		Where("id = ? AND is_deleted = ?", entityID, false).
		Update("is_published", *reqData.IsPublished)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update publish state!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Entity not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Publish state updated successfully!", fiber.Map{
		"entity_type":  entityType,
		"entity_id":    entityID,
		"is_published": *reqData.IsPublished,
	})
}
