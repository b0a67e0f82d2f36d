package course

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Uday261104/lms-v2/access"
	"github.com/Uday261104/lms-v2/model"
	"github.com/Uday261104/lms-v2/services"
	"github.com/Uday261104/lms-v2/utils/middleware"
	"github.com/Uday261104/lms-v2/utils/response"
	"github.com/Uday261104/lms-v2/utils/validation"
)

// CreateSectionRequest represents a section creation request
type CreateSectionRequest struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Order    int    `json:"order" validate:"required,min=1"`
}

// UpdateSectionRequest represents a section update request
type UpdateSectionRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Order *int    `json:"order,omitempty" validate:"omitempty,min=1"`
}

// CreateSection inserts a section into a course the user owns. Sections at
// or above the requested position shift up by one.
func (h *CourseHandler) CreateSection(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var course model.Course
	if err := h.db.First(&course, req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if !access.CanEditCourse(user, &course) {
		return response.Forbidden(c, "Not your course")
	}

	section, err := h.content.CreateSection(req.CourseID, validation.SanitizeString(req.Title), req.Order)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to create section")
	}

	return response.Created(c, section.ToResponse(true))
}

// UpdateSection updates a section of a course the user owns. Changing the
// order writes it as-is, without shifting siblings.
func (h *CourseHandler) UpdateSection(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return response.BadRequest(c, "Invalid section ID")
	}

	var section model.Section
	if err := h.db.Preload("Course").First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Section not found")
		}
		return response.InternalServerError(c, "Failed to fetch section")
	}

	if !access.CanEditSection(user, &section) {
		return response.Forbidden(c, "Not your course")
	}

	var req UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != nil {
		section.Title = validation.SanitizeString(*req.Title)
	}
	if req.Order != nil {
		section.Order = *req.Order
	}

	if err := h.content.UpdateSection(&section); err != nil {
		return response.InternalServerError(c, "Failed to update section")
	}

	return response.Success(c, section.ToResponse(true))
}

// DeleteSection removes a section, and its chapters, from a course the user
// owns.
func (h *CourseHandler) DeleteSection(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return response.BadRequest(c, "Invalid section ID")
	}

	var section model.Section
	if err := h.db.Preload("Course").First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Section not found")
		}
		return response.InternalServerError(c, "Failed to fetch section")
	}

	if !access.CanEditSection(user, &section) {
		return response.Forbidden(c, "Not your course")
	}

	if err := h.content.DeleteSection(&section); err != nil {
		return response.InternalServerError(c, "Failed to delete section")
	}

	return response.SuccessWithMessage(c, "Section deleted", nil)
}
