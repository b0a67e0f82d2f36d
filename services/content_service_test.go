package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Uday261104/lms-v2/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Course{},
		&model.Section{},
		&model.Chapter{},
		&model.Enrollment{},
	))

	return db
}

func seedCourse(t *testing.T, db *gorm.DB) *model.Course {
	t.Helper()

	user := model.User{Email: "creator@example.com", PasswordHash: "x", Name: "Creator"}
	require.NoError(t, db.Create(&user).Error)

	course := model.Course{CreatorID: user.ID, Title: "Go from scratch", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func sectionOrders(t *testing.T, db *gorm.DB, courseID uint) map[string]int {
	t.Helper()

	var sections []model.Section
	require.NoError(t, db.Where("course_id = ?", courseID).Order(`"order" ASC`).Find(&sections).Error)

	orders := make(map[string]int, len(sections))
	for _, s := range sections {
		orders[s.Title] = s.Order
	}
	return orders
}

func courseTotalHours(t *testing.T, db *gorm.DB, courseID uint) float64 {
	t.Helper()

	var course model.Course
	require.NoError(t, db.First(&course, courseID).Error)
	return course.TotalHours
}

func TestCreateSectionShiftsExistingOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	for i, title := range []string{"Intro", "Basics", "Advanced"} {
		_, err := svc.CreateSection(course.ID, title, i+1)
		require.NoError(t, err)
	}

	// Insert at position 2: Basics and Advanced move up by one.
	_, err := svc.CreateSection(course.ID, "Setup", 2)
	require.NoError(t, err)

	orders := sectionOrders(t, db, course.ID)
	require.Equal(t, map[string]int{
		"Intro":    1,
		"Setup":    2,
		"Basics":   3,
		"Advanced": 4,
	}, orders)
}

func TestCreateSectionAtEndDoesNotTouchOthers(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	_, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)
	_, err = svc.CreateSection(course.ID, "Outro", 2)
	require.NoError(t, err)

	orders := sectionOrders(t, db, course.ID)
	require.Equal(t, map[string]int{"Intro": 1, "Outro": 2}, orders)
}

func TestCreateSectionUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	_, err := svc.CreateSection(999, "Ghost", 1)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUpdateSectionDoesNotShift(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	first, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)
	_, err = svc.CreateSection(course.ID, "Basics", 2)
	require.NoError(t, err)

	// Move Intro onto an occupied order; the sibling stays where it was.
	first.Order = 2
	require.NoError(t, svc.UpdateSection(first))

	orders := sectionOrders(t, db, course.ID)
	require.Equal(t, 2, orders["Intro"])
	require.Equal(t, 2, orders["Basics"])
}

func TestCreateChapterAppendsWhenOrderOmitted(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	section, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)

	_, err = svc.CreateChapter(section.ID, "Welcome", "https://cdn.example.com/v1.mp4", 0.5, 3)
	require.NoError(t, err)

	appended, err := svc.CreateChapter(section.ID, "Tooling", "https://cdn.example.com/v2.mp4", 1.0, 0)
	require.NoError(t, err)
	require.Equal(t, 4, appended.Order)

	// First chapter of an empty section lands at 1.
	other, err := svc.CreateSection(course.ID, "Basics", 2)
	require.NoError(t, err)
	first, err := svc.CreateChapter(other.ID, "Variables", "https://cdn.example.com/v3.mp4", 0.75, 0)
	require.NoError(t, err)
	require.Equal(t, 1, first.Order)
}

func TestCreateChapterExplicitOrderWrittenAsIs(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	section, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)

	_, err = svc.CreateChapter(section.ID, "Welcome", "https://cdn.example.com/v1.mp4", 0.5, 1)
	require.NoError(t, err)

	// Explicit order onto a taken position: no shifting, both keep order 1.
	dup, err := svc.CreateChapter(section.ID, "Welcome again", "https://cdn.example.com/v2.mp4", 0.5, 1)
	require.NoError(t, err)
	require.Equal(t, 1, dup.Order)

	var count int64
	require.NoError(t, db.Model(&model.Chapter{}).Where(`section_id = ? AND "order" = 1`, section.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestCreateChapterUnknownSection(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	_, err := svc.CreateChapter(999, "Ghost", "https://cdn.example.com/v.mp4", 1, 0)
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestTotalHoursFollowsChapterWrites(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	intro, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)
	basics, err := svc.CreateSection(course.ID, "Basics", 2)
	require.NoError(t, err)

	_, err = svc.CreateChapter(intro.ID, "Welcome", "https://cdn.example.com/v1.mp4", 0.5, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.5, courseTotalHours(t, db, course.ID), 1e-9)

	ch, err := svc.CreateChapter(basics.ID, "Variables", "https://cdn.example.com/v2.mp4", 1.25, 0)
	require.NoError(t, err)
	require.InDelta(t, 1.75, courseTotalHours(t, db, course.ID), 1e-9)

	// Duration edits flow through on save.
	require.NoError(t, db.Preload("Section").First(ch, ch.ID).Error)
	ch.VideoDuration = 2.0
	require.NoError(t, svc.SaveChapter(ch))
	require.InDelta(t, 2.5, courseTotalHours(t, db, course.ID), 1e-9)

	// And deletions.
	require.NoError(t, svc.DeleteChapter(ch))
	require.InDelta(t, 0.5, courseTotalHours(t, db, course.ID), 1e-9)
}

func TestDeleteSectionRemovesChaptersAndRecomputes(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	intro, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)
	basics, err := svc.CreateSection(course.ID, "Basics", 2)
	require.NoError(t, err)

	_, err = svc.CreateChapter(intro.ID, "Welcome", "https://cdn.example.com/v1.mp4", 0.5, 0)
	require.NoError(t, err)
	_, err = svc.CreateChapter(basics.ID, "Variables", "https://cdn.example.com/v2.mp4", 1.0, 0)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSection(intro))

	require.InDelta(t, 1.0, courseTotalHours(t, db, course.ID), 1e-9)

	var count int64
	require.NoError(t, db.Model(&model.Chapter{}).Where("section_id = ?", intro.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestDeleteCourseRemovesChildrenAndEnrollments(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	enrollments := NewEnrollmentService(db)
	course := seedCourse(t, db)

	section, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)
	_, err = svc.CreateChapter(section.ID, "Welcome", "https://cdn.example.com/v1.mp4", 0.5, 0)
	require.NoError(t, err)

	student := model.User{Email: "student@example.com", PasswordHash: "x", Name: "Student"}
	require.NoError(t, db.Create(&student).Error)
	_, err = enrollments.Enroll(&student, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(course))

	// Soft deletes skip the FK cascades, so the children must be gone too.
	var gone model.Course
	require.ErrorIs(t, db.First(&gone, course.ID).Error, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Section{}).Where("course_id = ?", course.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&model.Chapter{}).Where("section_id = ?", section.ID).Count(&count).Error)
	require.Zero(t, count)

	// No ghost rows in the student's listing.
	remaining, err := enrollments.ListForUser(student.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestRecomputeCourseFixesSeededTotals(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	course := seedCourse(t, db)

	section, err := svc.CreateSection(course.ID, "Intro", 1)
	require.NoError(t, err)
	_, err = svc.CreateChapter(section.ID, "Welcome", "https://cdn.example.com/v1.mp4", 0.5, 0)
	require.NoError(t, err)

	// Simulate drift written by an external tool.
	require.NoError(t, db.Model(&model.Course{}).Where("id = ?", course.ID).UpdateColumn("total_hours", 42.0).Error)

	require.NoError(t, svc.RecomputeCourse(course.ID))
	require.InDelta(t, 0.5, courseTotalHours(t, db, course.ID), 1e-9)
}
