package model

import (
	"time"

	"gorm.io/gorm"
)

// Course is an authored course owned by a single creator. TotalHours is
// derived from chapter durations and recomputed on every chapter write.
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	CreatorID    uint           `gorm:"not null;index" json:"creator_id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Thumbnail    string         `json:"thumbnail"` // object storage URL
	Requirements string         `gorm:"type:text" json:"requirements"`
	TotalHours   float64        `gorm:"default:0" json:"total_hours"`
	IsPublished  bool           `gorm:"default:false" json:"is_published"`

	// Relationships
	Creator     User         `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	Sections    []Section    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Section is an ordered group of chapters within a course. Orders within a
// course stay contiguous from 1: inserting at a taken position shifts the
// sections at and above it up by one. Uniqueness of (course, order) is
// maintained by that insert-shift logic rather than a DB constraint, since a
// one-statement shift would transiently collide under a unique index.
type Section struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CourseID  uint           `gorm:"not null;index:idx_section_course_order" json:"course_id"`
	Title     string         `gorm:"not null" json:"title"`
	Order     int            `gorm:"column:order;not null;index:idx_section_course_order" json:"order"`

	// Relationships
	Course   Course    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Chapters []Chapter `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}

// Chapter is a single video lesson within a section. When no order is
// supplied on insert it is appended as max(existing)+1; an explicit order is
// written as-is, without shifting siblings.
type Chapter struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	SectionID     uint           `gorm:"not null;index:idx_chapter_section_order" json:"section_id"`
	Title         string         `gorm:"not null" json:"title"`
	VideoURL      string         `gorm:"not null" json:"video_url"`
	VideoDuration float64        `gorm:"not null" json:"video_duration"` // hours
	Order         int            `gorm:"column:order;not null;index:idx_chapter_section_order" json:"order"`

	// Relationships
	Section Section `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
}

// ChapterResponse is the API shape of a chapter. VideoURL is a pointer so it
// is dropped from the JSON entirely for viewers without content access.
type ChapterResponse struct {
	ID            uint    `json:"id"`
	SectionID     uint    `json:"section_id"`
	Title         string  `json:"title"`
	VideoURL      *string `json:"video_url,omitempty"`
	VideoDuration float64 `json:"video_duration"`
	Order         int     `json:"order"`
}

// ToResponse converts a Chapter, including the video URL only when the
// viewer may see gated content.
func (ch *Chapter) ToResponse(includeVideo bool) ChapterResponse {
	res := ChapterResponse{
		ID:            ch.ID,
		SectionID:     ch.SectionID,
		Title:         ch.Title,
		VideoDuration: ch.VideoDuration,
		Order:         ch.Order,
	}
	if includeVideo {
		url := ch.VideoURL
		res.VideoURL = &url
	}
	return res
}

// SectionResponse is the API shape of a section with its ordered chapters.
type SectionResponse struct {
	ID       uint              `json:"id"`
	CourseID uint              `json:"course_id"`
	Title    string            `json:"title"`
	Order    int               `json:"order"`
	Chapters []ChapterResponse `json:"chapters"`
}

// ToResponse converts a Section and its preloaded chapters.
func (s *Section) ToResponse(includeVideo bool) SectionResponse {
	chapters := make([]ChapterResponse, 0, len(s.Chapters))
	for i := range s.Chapters {
		chapters = append(chapters, s.Chapters[i].ToResponse(includeVideo))
	}
	return SectionResponse{
		ID:       s.ID,
		CourseID: s.CourseID,
		Title:    s.Title,
		Order:    s.Order,
		Chapters: chapters,
	}
}

// CourseResponse is the API shape of a course with its content tree.
type CourseResponse struct {
	ID           uint              `json:"id"`
	Creator      string            `json:"creator"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Thumbnail    string            `json:"thumbnail"`
	Requirements string            `json:"requirements"`
	TotalHours   float64           `json:"total_hours"`
	IsPublished  bool              `json:"is_published"`
	Sections     []SectionResponse `json:"sections"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ToResponse converts a Course with its preloaded creator and sections.
// includeVideo applies to every chapter in the tree.
func (c *Course) ToResponse(includeVideo bool) CourseResponse {
	sections := make([]SectionResponse, 0, len(c.Sections))
	for i := range c.Sections {
		sections = append(sections, c.Sections[i].ToResponse(includeVideo))
	}
	return CourseResponse{
		ID:           c.ID,
		Creator:      c.Creator.Email,
		Title:        c.Title,
		Description:  c.Description,
		Thumbnail:    c.Thumbnail,
		Requirements: c.Requirements,
		TotalHours:   c.TotalHours,
		IsPublished:  c.IsPublished,
		Sections:     sections,
		CreatedAt:    c.CreatedAt,
	}
}
