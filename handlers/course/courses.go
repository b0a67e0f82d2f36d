package course

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Uday261104/lms-v2/access"
	"github.com/Uday261104/lms-v2/model"
	"github.com/Uday261104/lms-v2/services"
	"github.com/Uday261104/lms-v2/services/storage"
	"github.com/Uday261104/lms-v2/utils/middleware"
	"github.com/Uday261104/lms-v2/utils/response"
	"github.com/Uday261104/lms-v2/utils/validation"
)

// CourseHandler handles course catalog and content requests
type CourseHandler struct {
	db        *gorm.DB
	content   *services.ContentService
	checker   *access.Checker
	spaces    *storage.SpacesClient
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler. spaces may be nil when
// object storage is not configured; thumbnail uploads then return 503.
func NewCourseHandler(db *gorm.DB, content *services.ContentService, checker *access.Checker, spaces *storage.SpacesClient) *CourseHandler {
	return &CourseHandler{
		db:        db,
		content:   content,
		checker:   checker,
		spaces:    spaces,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents a course creation request
type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	Requirements string `json:"requirements" validate:"max=5000"`
	IsPublished  bool   `json:"is_published"`
}

// UpdateCourseRequest represents a course update request
type UpdateCourseRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Requirements *string `json:"requirements,omitempty" validate:"omitempty,max=5000"`
	IsPublished  *bool   `json:"is_published,omitempty"`
}

// ListCourses returns the public course catalog, paginated. Video URLs are
// never included at the catalog level.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&model.Course{}).Where("is_published = ?", true)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count courses")
	}

	var courses []model.Course
	err := query.
		Preload("Creator").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).
		Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	results := make([]model.CourseResponse, 0, len(courses))
	for i := range courses {
		results = append(results, courses[i].ToResponse(false))
	}

	return response.Paginated(c, results, response.CalculatePagination(page, limit, total))
}

// GetCourse returns a single course with its full content tree. The video
// URLs are included only for viewers with content access (creator, admin or
// an enrolled student); anonymous and unenrolled viewers see the tree with
// the video_url field absent.
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.loadCourseTree(uint(courseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	includeVideo := false
	if user, ok := middleware.GetUser(c); ok {
		includeVideo, err = h.checker.CanViewContent(user, course)
		if err != nil {
			return response.InternalServerError(c, "Failed to check access")
		}
	}

	return response.Success(c, course.ToResponse(includeVideo))
}

// Player returns the course content tree with video URLs for enrolled
// viewers, creators and admins only. Everyone else is rejected.
func (h *CourseHandler) Player(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	course, err := h.loadCourseTree(uint(courseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	allowed, err := h.checker.CanViewContent(user, course)
	if err != nil {
		return response.InternalServerError(c, "Failed to check access")
	}
	if !allowed {
		return response.Forbidden(c, "You are not enrolled in course")
	}

	return response.Success(c, course.ToResponse(true))
}

// CreateCourse creates a new course owned by the authenticated creator
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if !access.CanCreateCourse(user) {
		return response.Forbidden(c, "Only creators can create courses")
	}

	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	course := model.Course{
		CreatorID:    user.ID,
		Title:        validation.SanitizeString(req.Title),
		Description:  req.Description,
		Requirements: req.Requirements,
		IsPublished:  req.IsPublished,
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	course.Creator = *user
	return response.Created(c, course.ToResponse(true))
}

// UpdateCourse updates fields of a course owned by the authenticated user
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.Preload("Creator").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if !access.CanEditCourse(user, &course) {
		return response.Forbidden(c, "Not your course")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != nil {
		course.Title = validation.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Requirements != nil {
		course.Requirements = *req.Requirements
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := h.db.Save(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.Success(c, course.ToResponse(true))
}

// DeleteCourse removes a course owned by the authenticated user, together
// with its sections, chapters and enrollments.
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if !access.CanEditCourse(user, &course) {
		return response.Forbidden(c, "Not your course")
	}

	if err := h.content.DeleteCourse(&course); err != nil {
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted", nil)
}

// MyCourses returns every course authored by the authenticated user,
// published or not.
func (h *CourseHandler) MyCourses(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var courses []model.Course
	err := h.db.
		Preload("Creator").
		Where("creator_id = ?", user.ID).
		Order("created_at DESC").
		Find(&courses).
		Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	results := make([]model.CourseResponse, 0, len(courses))
	for i := range courses {
		results = append(results, courses[i].ToResponse(true))
	}

	return response.Success(c, results)
}

// UploadThumbnail stores a thumbnail image for a course the user owns and
// saves its public URL on the course.
func (h *CourseHandler) UploadThumbnail(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if !access.CanEditCourse(user, &course) {
		return response.Forbidden(c, "Not your course")
	}

	if h.spaces == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Object storage is not configured", "SERVICE_UNAVAILABLE")
	}

	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		return response.BadRequest(c, "Thumbnail file is required")
	}
	if fileHeader.Size > 5*1024*1024 {
		return response.BadRequest(c, "Thumbnail must be smaller than 5MB")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
	}[ext]
	if !ok {
		return response.BadRequest(c, "Thumbnail must be a JPEG, PNG or WebP image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read thumbnail")
	}
	defer file.Close()

	key := fmt.Sprintf("thumbnails/course_%d_%d%s", course.ID, time.Now().Unix(), ext)
	url, err := h.spaces.UploadFile(c.Context(), key, file, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to upload thumbnail")
	}

	oldThumbnail := course.Thumbnail
	if err := h.db.Model(&course).UpdateColumn("thumbnail", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save thumbnail URL")
	}

	// Drop the replaced object. A failed cleanup only leaves an orphan in
	// the bucket, so the response does not depend on it.
	if oldKey := thumbnailKey(oldThumbnail); oldKey != "" && oldKey != key {
		if err := h.spaces.DeleteFile(c.Context(), oldKey); err != nil {
			log.Printf("Failed to delete old thumbnail %s: %v", oldKey, err)
		}
	}

	return response.Success(c, fiber.Map{"thumbnail": url})
}

// thumbnailKey extracts the object key from a stored thumbnail URL. Returns
// "" for URLs that do not point into the thumbnails prefix.
func thumbnailKey(url string) string {
	idx := strings.Index(url, "thumbnails/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}

// loadCourseTree fetches a course with its creator and its sections and
// chapters, both ordered by their position.
func (h *CourseHandler) loadCourseTree(courseID uint) (*model.Course, error) {
	var course model.Course
	err := h.db.
		Preload("Creator").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order(`sections."order" ASC`)
		}).
		Preload("Sections.Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order(`chapters."order" ASC`)
		}).
		First(&course, courseID).
		Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}
