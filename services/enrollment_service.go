package services

import (
	"errors"

	"github.com/Uday261104/lms-v2/access"
	"github.com/Uday261104/lms-v2/model"
	"gorm.io/gorm"
)

var (
	// ErrOwnCourse is returned when a creator tries to enroll in their own course.
	ErrOwnCourse = errors.New("creators cannot enroll in their own course")
	// ErrAlreadyEnrolled is returned on a duplicate enrollment attempt.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

// EnrollmentService owns the one-shot enrollment transition.
type EnrollmentService struct {
	db *gorm.DB
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// Enroll creates an active enrollment for the user. The existence check and
// the insert run in one transaction; the unique index on (user_id, course_id)
// backs the check under concurrent attempts.
func (s *EnrollmentService) Enroll(user *model.User, courseID uint) (*model.Enrollment, error) {
	enrollment := model.Enrollment{
		UserID:   user.ID,
		CourseID: courseID,
		Status:   model.EnrollmentStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var count int64
		err := tx.Model(&model.Enrollment{}).
			Where("user_id = ? AND course_id = ?", user.ID, courseID).
			Count(&count).
			Error
		if err != nil {
			return err
		}

		if !access.CanEnroll(user, &course, count > 0) {
			if course.CreatorID == user.ID {
				return ErrOwnCourse
			}
			return ErrAlreadyEnrolled
		}

		return tx.Create(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListForUser returns the user's enrollments with their courses preloaded.
func (s *EnrollmentService) ListForUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := s.db.Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_on DESC").
		Find(&enrollments).
		Error
	return enrollments, err
}
