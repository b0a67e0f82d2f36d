package enrollment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Uday261104/lms-v2/model"
	"github.com/Uday261104/lms-v2/services"
	"github.com/Uday261104/lms-v2/utils/middleware"
	"github.com/Uday261104/lms-v2/utils/response"
	"github.com/Uday261104/lms-v2/utils/validation"
)

// EnrollmentHandler handles course enrollment requests
type EnrollmentHandler struct {
	db          *gorm.DB
	enrollments *services.EnrollmentService
	validator   *validation.Validator
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(db *gorm.DB, enrollments *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		db:          db,
		enrollments: enrollments,
		validator:   validation.NewValidator(),
	}
}

// EnrollRequest represents an enrollment request
type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// Enroll enrolls the authenticated user in a course. Enrollment is one-shot:
// a repeat attempt conflicts, and creators cannot enroll in their own course.
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	enrollment, err := h.enrollments.Enroll(user, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			return response.NotFound(c, "Course not found")
		case errors.Is(err, services.ErrOwnCourse):
			return response.Forbidden(c, "You cannot enroll in your own course")
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return response.Conflict(c, "You are already enrolled in this course")
		default:
			return response.InternalServerError(c, "Failed to enroll")
		}
	}

	return response.Created(c, enrollment)
}

// MyEnrollments returns the authenticated user's enrollments, newest first.
func (h *EnrollmentHandler) MyEnrollments(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	enrollments, err := h.enrollments.ListForUser(userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch enrollments")
	}

	results := make([]model.MyEnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		results = append(results, enrollments[i].ToMyResponse())
	}

	return response.Success(c, results)
}
