package model

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment status values. There is no active -> completed transition in
// this service; "completed" exists for external writers.
const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
)

// Enrollment relates a user to a course they can view gated content of.
// One enrollment per (user, course) pair.
type Enrollment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uint           `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID   uint           `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	Status     string         `gorm:"type:varchar(20);default:'active'" json:"status"`
	EnrolledOn time.Time      `gorm:"autoCreateTime" json:"enrolled_on"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// MyEnrollmentResponse is the API shape of an enrollment in the requester's
// own listing, flattened to the course it grants access to.
type MyEnrollmentResponse struct {
	ID         uint      `json:"id"` // course id
	Title      string    `json:"title"`
	Thumbnail  string    `json:"thumbnail"`
	TotalHours float64   `json:"total_hours"`
	Status     string    `json:"status"`
	EnrolledOn time.Time `json:"enrolled_on"`
}

// ToMyResponse converts an Enrollment with its preloaded course.
func (e *Enrollment) ToMyResponse() MyEnrollmentResponse {
	return MyEnrollmentResponse{
		ID:         e.Course.ID,
		Title:      e.Course.Title,
		Thumbnail:  e.Course.Thumbnail,
		TotalHours: e.Course.TotalHours,
		Status:     e.Status,
		EnrolledOn: e.EnrolledOn,
	}
}
