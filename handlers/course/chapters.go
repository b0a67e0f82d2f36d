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

// CreateChapterRequest represents a chapter creation request. Order is
// optional; when omitted the chapter is appended after the section's last.
type CreateChapterRequest struct {
	SectionID     uint    `json:"section_id" validate:"required"`
	Title         string  `json:"title" validate:"required,min=1,max=200"`
	VideoURL      string  `json:"video_url" validate:"required,url"`
	VideoDuration float64 `json:"video_duration" validate:"required,gt=0"`
	Order         int     `json:"order" validate:"omitempty,min=1"`
}

// UpdateChapterRequest represents a chapter update request
type UpdateChapterRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	VideoURL      *string  `json:"video_url,omitempty" validate:"omitempty,url"`
	VideoDuration *float64 `json:"video_duration,omitempty" validate:"omitempty,gt=0"`
	Order         *int     `json:"order,omitempty" validate:"omitempty,min=1"`
}

// CreateChapter inserts a chapter into a section of a course the user owns.
// The course's total hours are recomputed as part of the write.
func (h *CourseHandler) CreateChapter(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req CreateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var section model.Section
	if err := h.db.Preload("Course").First(&section, req.SectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Section not found")
		}
		return response.InternalServerError(c, "Failed to fetch section")
	}

	if !access.CanEditSection(user, &section) {
		return response.Forbidden(c, "Not your course")
	}

	chapter, err := h.content.CreateChapter(req.SectionID, validation.SanitizeString(req.Title), req.VideoURL, req.VideoDuration, req.Order)
	if err != nil {
		if errors.Is(err, services.ErrSectionNotFound) {
			return response.NotFound(c, "Section not found")
		}
		return response.InternalServerError(c, "Failed to create chapter")
	}

	return response.Created(c, chapter.ToResponse(true))
}

// UpdateChapter updates a chapter of a course the user owns. Duration
// changes flow into the course's total hours.
func (h *CourseHandler) UpdateChapter(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	chapterID, err := c.ParamsInt("id")
	if err != nil || chapterID < 1 {
		return response.BadRequest(c, "Invalid chapter ID")
	}

	var chapter model.Chapter
	if err := h.db.Preload("Section.Course").First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Chapter not found")
		}
		return response.InternalServerError(c, "Failed to fetch chapter")
	}

	if !access.CanEditChapter(user, &chapter) {
		return response.Forbidden(c, "Not your course")
	}

	var req UpdateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != nil {
		chapter.Title = validation.SanitizeString(*req.Title)
	}
	if req.VideoURL != nil {
		chapter.VideoURL = *req.VideoURL
	}
	if req.VideoDuration != nil {
		chapter.VideoDuration = *req.VideoDuration
	}
	if req.Order != nil {
		chapter.Order = *req.Order
	}

	if err := h.content.SaveChapter(&chapter); err != nil {
		return response.InternalServerError(c, "Failed to update chapter")
	}

	return response.Success(c, chapter.ToResponse(true))
}

// DeleteChapter removes a chapter from a course the user owns and recomputes
// the course's total hours.
func (h *CourseHandler) DeleteChapter(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	chapterID, err := c.ParamsInt("id")
	if err != nil || chapterID < 1 {
		return response.BadRequest(c, "Invalid chapter ID")
	}

	var chapter model.Chapter
	if err := h.db.Preload("Section.Course").First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Chapter not found")
		}
		return response.InternalServerError(c, "Failed to fetch chapter")
	}

	if !access.CanEditChapter(user, &chapter) {
		return response.Forbidden(c, "Not your course")
	}

	if err := h.content.DeleteChapter(&chapter); err != nil {
		return response.InternalServerError(c, "Failed to delete chapter")
	}

	return response.SuccessWithMessage(c, "Chapter deleted", nil)
}
