package course

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Uday261104/lms-v2/access"
	"github.com/Uday261104/lms-v2/model"
	"github.com/Uday261104/lms-v2/services"
)

type testEnv struct {
	db      *gorm.DB
	app     *fiber.App
	handler *CourseHandler
}

// userInjector mimics the auth middleware for tests: a user id in the
// X-Test-User header loads that user, with roles, into request locals.
func userInjector(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("X-Test-User")
		if header == "" {
			return c.Next()
		}
		var user model.User
		if err := db.Preload("Roles").Where("email = ?", header).First(&user).Error; err != nil {
			return c.Next()
		}
		c.Locals("user", &user)
		c.Locals("user_id", user.ID)
		return c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
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

	handler := NewCourseHandler(db, services.NewContentService(db), access.NewChecker(db), nil)

	app := fiber.New()
	app.Use(userInjector(db))
	app.Get("/courses/:id", handler.GetCourse)
	app.Get("/courses/:id/player", handler.Player)
	app.Put("/courses/:id", handler.UpdateCourse)
	app.Post("/sections", handler.CreateSection)
	app.Post("/chapters", handler.CreateChapter)

	return &testEnv{db: db, app: app, handler: handler}
}

func (e *testEnv) seedUser(t *testing.T, email string, roles ...string) *model.User {
	t.Helper()

	user := model.User{Email: email, PasswordHash: "x", Name: strings.Split(email, "@")[0]}
	for _, name := range roles {
		var role model.Role
		require.NoError(t, e.db.Where(model.Role{Name: name}).FirstOrCreate(&role).Error)
		user.Roles = append(user.Roles, role)
	}
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}

// seedCourseWithChapter creates a published course with one section and one
// chapter owned by the given creator.
func (e *testEnv) seedCourseWithChapter(t *testing.T, creator *model.User) *model.Course {
	t.Helper()

	course := model.Course{CreatorID: creator.ID, Title: "Go from scratch", IsPublished: true}
	require.NoError(t, e.db.Create(&course).Error)

	section := model.Section{CourseID: course.ID, Title: "Intro", Order: 1}
	require.NoError(t, e.db.Create(&section).Error)

	chapter := model.Chapter{
		SectionID:     section.ID,
		Title:         "Welcome",
		VideoURL:      "https://cdn.example.com/welcome.mp4",
		VideoDuration: 0.5,
		Order:         1,
	}
	require.NoError(t, e.db.Create(&chapter).Error)
	return &course
}

func (e *testEnv) request(t *testing.T, method, path, asUser string, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if asUser != "" {
		req.Header.Set("X-Test-User", asUser)
	}

	res, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return res, parsed
}

// firstChapter digs the first chapter object out of a course response body.
func firstChapter(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	sections, ok := data["sections"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, sections)
	chapters, ok := sections[0].(map[string]interface{})["chapters"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, chapters)
	return chapters[0].(map[string]interface{})
}

func TestGetCourseHidesVideoURLFromUnenrolled(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", model.RoleCreator)
	course := env.seedCourseWithChapter(t, creator)
	env.seedUser(t, "student@example.com", model.RoleStudent)

	// Anonymous viewer: chapter present, video_url key absent.
	res, body := env.request(t, "GET", fmt.Sprintf("/courses/%d", course.ID), "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	chapter := firstChapter(t, body)
	require.Equal(t, "Welcome", chapter["title"])
	_, hasVideoURL := chapter["video_url"]
	require.False(t, hasVideoURL)

	// Unenrolled student: same treatment.
	res, body = env.request(t, "GET", fmt.Sprintf("/courses/%d", course.ID), "student@example.com", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	_, hasVideoURL = firstChapter(t, body)["video_url"]
	require.False(t, hasVideoURL)
}

func TestGetCourseShowsVideoURLToEnrolledAndCreator(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", model.RoleCreator)
	course := env.seedCourseWithChapter(t, creator)
	student := env.seedUser(t, "student@example.com", model.RoleStudent)

	require.NoError(t, env.db.Create(&model.Enrollment{
		UserID:   student.ID,
		CourseID: course.ID,
		Status:   model.EnrollmentStatusActive,
	}).Error)

	res, body := env.request(t, "GET", fmt.Sprintf("/courses/%d", course.ID), "student@example.com", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "https://cdn.example.com/welcome.mp4", firstChapter(t, body)["video_url"])

	res, body = env.request(t, "GET", fmt.Sprintf("/courses/%d", course.ID), "creator@example.com", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "https://cdn.example.com/welcome.mp4", firstChapter(t, body)["video_url"])
}

func TestPlayerRejectsUnenrolled(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", model.RoleCreator)
	course := env.seedCourseWithChapter(t, creator)
	env.seedUser(t, "student@example.com", model.RoleStudent)

	res, _ := env.request(t, "GET", fmt.Sprintf("/courses/%d/player", course.ID), "student@example.com", "")
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = env.request(t, "GET", fmt.Sprintf("/courses/%d/player", course.ID), "", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestPlayerAllowsSuperuser(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", model.RoleCreator)
	course := env.seedCourseWithChapter(t, creator)

	admin := env.seedUser(t, "admin@example.com")
	require.NoError(t, env.db.Model(admin).UpdateColumn("is_superuser", true).Error)

	res, body := env.request(t, "GET", fmt.Sprintf("/courses/%d/player", course.ID), "admin@example.com", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "https://cdn.example.com/welcome.mp4", firstChapter(t, body)["video_url"])
}

func TestUpdateCourseRejectsNonOwner(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", model.RoleCreator)
	course := env.seedCourseWithChapter(t, creator)
	env.seedUser(t, "other@example.com", model.RoleCreator)

	res, body := env.request(t, "PUT", fmt.Sprintf("/courses/%d", course.ID), "other@example.com", `{"title":"Hijacked"}`)
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Not your course", errObj["message"])
}

func TestCreateSectionRejectsNonOwner(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", model.RoleCreator)
	course := env.seedCourseWithChapter(t, creator)
	env.seedUser(t, "other@example.com", model.RoleCreator)

	payload := fmt.Sprintf(`{"course_id":%d,"title":"Sneaky","order":1}`, course.ID)
	res, _ := env.request(t, "POST", "/sections", "other@example.com", payload)
	require.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestThumbnailKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/thumbnails/course_1_1700000000.png", "thumbnails/course_1_1700000000.png"},
		{"https://bucket.nyc3.digitaloceanspaces.com/thumbnails/course_2_1700000000.jpg", "thumbnails/course_2_1700000000.jpg"},
		{"https://elsewhere.example.com/image.png", ""},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, thumbnailKey(tt.url), tt.url)
	}
}

func TestCreateChapterRecomputesTotalHours(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", model.RoleCreator)
	course := env.seedCourseWithChapter(t, creator)

	var section model.Section
	require.NoError(t, env.db.Where("course_id = ?", course.ID).First(&section).Error)

	payload := fmt.Sprintf(`{"section_id":%d,"title":"Tooling","video_url":"https://cdn.example.com/tooling.mp4","video_duration":1.5}`, section.ID)
	res, _ := env.request(t, "POST", "/chapters", "creator@example.com", payload)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var updated model.Course
	require.NoError(t, env.db.First(&updated, course.ID).Error)
	require.InDelta(t, 2.0, updated.TotalHours, 1e-9)
}
