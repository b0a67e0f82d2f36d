package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Uday261104/lms-v2/model"
)

func creatorUser(id uint) *model.User {
	return &model.User{
		ID:    id,
		Roles: []model.Role{{ID: 2, Name: model.RoleCreator}},
	}
}

func studentUser(id uint) *model.User {
	return &model.User{
		ID:    id,
		Roles: []model.Role{{ID: 1, Name: model.RoleStudent}},
	}
}

func TestCanCreateCourse(t *testing.T) {
	assert.True(t, CanCreateCourse(creatorUser(1)))
	assert.False(t, CanCreateCourse(studentUser(1)))
	assert.False(t, CanCreateCourse(nil))
}

func TestCanEditCourse(t *testing.T) {
	owner := creatorUser(1)
	other := creatorUser(2)
	course := &model.Course{ID: 10, CreatorID: 1}

	assert.True(t, CanEditCourse(owner, course))
	assert.False(t, CanEditCourse(other, course))
	assert.False(t, CanEditCourse(nil, course))
	assert.False(t, CanEditCourse(owner, nil))
}

func TestCanEditSectionAndChapter(t *testing.T) {
	owner := creatorUser(1)
	other := creatorUser(2)

	section := &model.Section{
		ID:       5,
		CourseID: 10,
		Course:   model.Course{ID: 10, CreatorID: 1},
	}
	chapter := &model.Chapter{
		ID:        7,
		SectionID: 5,
		Section:   *section,
	}

	assert.True(t, CanEditSection(owner, section))
	assert.False(t, CanEditSection(other, section))
	assert.True(t, CanEditChapter(owner, chapter))
	assert.False(t, CanEditChapter(other, chapter))
	assert.False(t, CanEditChapter(nil, chapter))
}

func TestCanEnroll(t *testing.T) {
	creator := creatorUser(1)
	student := studentUser(2)
	course := &model.Course{ID: 10, CreatorID: 1}

	tests := []struct {
		name            string
		user            *model.User
		alreadyEnrolled bool
		want            bool
	}{
		{"student not yet enrolled", student, false, true},
		{"student already enrolled", student, true, false},
		{"creator of the course", creator, false, false},
		{"nil user", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEnroll(tt.user, course, tt.alreadyEnrolled))
		})
	}
}

func TestCanViewContent(t *testing.T) {
	creator := creatorUser(1)
	student := studentUser(2)
	superuser := &model.User{ID: 3, IsSuperuser: true}
	adminByRole := &model.User{ID: 4, Roles: []model.Role{{Name: model.RoleAdmin}}}
	course := &model.Course{ID: 10, CreatorID: 1}

	tests := []struct {
		name     string
		user     *model.User
		enrolled bool
		want     bool
	}{
		{"creator sees own content", creator, false, true},
		{"superuser sees everything", superuser, false, true},
		{"admin group sees everything", adminByRole, false, true},
		{"enrolled student", student, true, true},
		{"unenrolled student", student, false, false},
		{"anonymous", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewContent(tt.user, course, tt.enrolled))
		})
	}
}
