// Package access holds the authorization rules for course content. The
// predicates are pure functions over already-loaded entities; Checker wraps
// them with the one database lookup (enrollment existence) some of them need.
package access

import (
	"github.com/Uday261104/lms-v2/model"
	"gorm.io/gorm"
)

// CanCreateCourse reports whether the user may author new courses.
func CanCreateCourse(user *model.User) bool {
	return user != nil && user.IsCreator()
}

// CanEditCourse reports whether the user owns the course.
func CanEditCourse(user *model.User, course *model.Course) bool {
	return user != nil && course != nil && course.CreatorID == user.ID
}

// CanEditSection reports whether the user owns the section's course. The
// section must have its Course preloaded.
func CanEditSection(user *model.User, section *model.Section) bool {
	if user == nil || section == nil {
		return false
	}
	return CanEditCourse(user, &section.Course)
}

// CanEditChapter reports whether the user owns the chapter's course,
// traversing Chapter -> Section -> Course. The chain must be preloaded.
func CanEditChapter(user *model.User, chapter *model.Chapter) bool {
	if user == nil || chapter == nil {
		return false
	}
	return CanEditSection(user, &chapter.Section)
}

// CanEnroll reports whether the user may enroll in the course: creators
// cannot enroll in their own courses, and enrollment is one-shot per pair.
func CanEnroll(user *model.User, course *model.Course, alreadyEnrolled bool) bool {
	if user == nil || course == nil {
		return false
	}
	if course.CreatorID == user.ID {
		return false
	}
	return !alreadyEnrolled
}

// CanViewContent reports whether the user may see the course's gated content:
// the creator, any admin, or an enrolled user.
func CanViewContent(user *model.User, course *model.Course, enrolled bool) bool {
	if user == nil || course == nil {
		return false
	}
	if course.CreatorID == user.ID || user.IsAdmin() {
		return true
	}
	return enrolled
}

// Checker answers access questions that need an enrollment lookup.
type Checker struct {
	db *gorm.DB
}

// NewChecker creates an access checker backed by the given database.
func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// IsEnrolled reports whether an enrollment exists for the (user, course) pair.
func (c *Checker) IsEnrolled(userID, courseID uint) (bool, error) {
	var count int64
	err := c.db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanViewContent resolves enrollment for the pair and evaluates the predicate.
func (c *Checker) CanViewContent(user *model.User, course *model.Course) (bool, error) {
	if user == nil || course == nil {
		return false, nil
	}
	// Creator and admin short-circuit before touching the database.
	if course.CreatorID == user.ID || user.IsAdmin() {
		return true, nil
	}
	enrolled, err := c.IsEnrolled(user.ID, course.ID)
	if err != nil {
		return false, err
	}
	return CanViewContent(user, course, enrolled), nil
}
