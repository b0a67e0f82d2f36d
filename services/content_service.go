package services

import (
	"errors"
	"fmt"

	"github.com/Uday261104/lms-v2/model"
	"gorm.io/gorm"
)

var (
	// ErrCourseNotFound is returned when a referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrSectionNotFound is returned when a referenced section does not exist.
	ErrSectionNotFound = errors.New("section not found")
)

// ContentService owns the ordering and duration-aggregation rules for the
// course content hierarchy. Every mutation runs inside a single transaction
// so the insert-shift and total-hours recompute cannot race a concurrent
// writer on the same course.
type ContentService struct {
	db *gorm.DB
}

// NewContentService creates a new content service
func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// CreateSection inserts a section at the requested order. Existing sections
// of the course at or above that order are shifted up by one first, so the
// orders stay unique and contiguous. The shift applies on creation only.
func (s *ContentService) CreateSection(courseID uint, title string, order int) (*model.Section, error) {
	section := model.Section{
		CourseID: courseID,
		Title:    title,
		Order:    order,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		// Insert-shift: displace sections at >= the requested position.
		if err := tx.Model(&model.Section{}).
			Where(`course_id = ? AND "order" >= ?`, courseID, order).
			UpdateColumn("order", gorm.Expr(`"order" + 1`)).
			Error; err != nil {
			return fmt.Errorf("shift sections: %w", err)
		}

		return tx.Create(&section).Error
	})
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// UpdateSection saves section field changes. No shifting happens on update;
// an explicit order change is written as-is.
func (s *ContentService) UpdateSection(section *model.Section) error {
	return s.db.Omit("Course", "Chapters").Save(section).Error
}

// DeleteSection removes a section together with its chapters and recomputes
// the parent course's total hours.
func (s *ContentService) DeleteSection(section *model.Section) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", section.ID).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(section).Error; err != nil {
			return err
		}
		return s.recomputeTotalHours(tx, section.CourseID)
	})
}

// DeleteCourse removes a course together with its sections, chapters and
// enrollments in one transaction. Soft deletes do not fire the FK cascades,
// so the children are deleted explicitly.
func (s *ContentService) DeleteCourse(course *model.Course) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		sectionIDs := tx.Model(&model.Section{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&model.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
}

// CreateChapter inserts a chapter into a section. When order is zero the
// chapter is appended as max(existing)+1; an explicit order is written
// without shifting siblings, unlike sections. The parent course's total
// hours are recomputed in the same transaction.
func (s *ContentService) CreateChapter(sectionID uint, title, videoURL string, duration float64, order int) (*model.Chapter, error) {
	chapter := model.Chapter{
		SectionID:     sectionID,
		Title:         title,
		VideoURL:      videoURL,
		VideoDuration: duration,
		Order:         order,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var section model.Section
		if err := tx.First(&section, sectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSectionNotFound
			}
			return err
		}

		if chapter.Order <= 0 {
			var maxOrder int
			err := tx.Model(&model.Chapter{}).
				Where("section_id = ?", sectionID).
				Select(`COALESCE(MAX("order"), 0)`).
				Scan(&maxOrder).
				Error
			if err != nil {
				return fmt.Errorf("max chapter order: %w", err)
			}
			chapter.Order = maxOrder + 1
		}

		if err := tx.Create(&chapter).Error; err != nil {
			return err
		}

		return s.recomputeTotalHours(tx, section.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// SaveChapter persists chapter field changes and recomputes the owning
// course's total hours. The chapter must have its Section preloaded.
func (s *ContentService) SaveChapter(chapter *model.Chapter) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Section").Save(chapter).Error; err != nil {
			return err
		}
		return s.recomputeTotalHours(tx, chapter.Section.CourseID)
	})
}

// DeleteChapter removes a chapter and recomputes the owning course's total
// hours. The chapter must have its Section preloaded.
func (s *ContentService) DeleteChapter(chapter *model.Chapter) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(chapter).Error; err != nil {
			return err
		}
		return s.recomputeTotalHours(tx, chapter.Section.CourseID)
	})
}

// RecomputeCourse re-derives a course's total hours outside of a content
// mutation, used by the reconciliation cron job.
func (s *ContentService) RecomputeCourse(courseID uint) error {
	return s.recomputeTotalHours(s.db, courseID)
}

// recomputeTotalHours sets course.total_hours to the exact sum of the
// durations of every live chapter reachable through the course's sections.
// A full re-aggregation rather than an incremental delta: correct even when
// prior data was seeded inconsistently.
func (s *ContentService) recomputeTotalHours(tx *gorm.DB, courseID uint) error {
	var total float64
	err := tx.Raw(`
		SELECT COALESCE(SUM(chapters.video_duration), 0)
		FROM chapters
		JOIN sections ON sections.id = chapters.section_id
		WHERE sections.course_id = ?
		  AND chapters.deleted_at IS NULL
		  AND sections.deleted_at IS NULL`,
		courseID,
	).Scan(&total).Error
	if err != nil {
		return fmt.Errorf("sum chapter durations: %w", err)
	}

	return tx.Model(&model.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("total_hours", total).
		Error
}
