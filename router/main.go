package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Uday261104/lms-v2/access"
	"github.com/Uday261104/lms-v2/config"
	"github.com/Uday261104/lms-v2/database"
	"github.com/Uday261104/lms-v2/handlers"
	auth_handlers "github.com/Uday261104/lms-v2/handlers/auth"
	course_handlers "github.com/Uday261104/lms-v2/handlers/course"
	enrollment_handlers "github.com/Uday261104/lms-v2/handlers/enrollment"
	notification_handlers "github.com/Uday261104/lms-v2/handlers/notification"
	"github.com/Uday261104/lms-v2/model"
	"github.com/Uday261104/lms-v2/services"
	"github.com/Uday261104/lms-v2/services/storage"
	"github.com/Uday261104/lms-v2/utils/auth"
	"github.com/Uday261104/lms-v2/utils/cache"
	"github.com/Uday261104/lms-v2/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage, actions *database.ActionStore) {
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "lms-v2-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Object storage for course thumbnails; optional in development.
	var spacesClient *storage.SpacesClient
	spacesConfig := storage.SpacesConfig{
		AccessKey: env.SPACES_ACCESS_KEY,
		SecretKey: env.SPACES_SECRET_KEY,
		Bucket:    env.SPACES_BUCKET,
		Region:    env.SPACES_REGION,
		Endpoint:  env.SPACES_ENDPOINT,
		CDNURL:    env.SPACES_CDN_URL,
	}
	if spacesConfig.IsConfigured() {
		spacesClient, err = storage.NewSpacesClient(spacesConfig)
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. Thumbnail uploads will be disabled.", err)
		}
	}

	contentService := services.NewContentService(db)
	enrollmentService := services.NewEnrollmentService(db)
	checker := access.NewChecker(db)
	mailer := services.NewEmailService(env)
	notificationService := services.NewNotificationService(actions, mailer)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	courseHandler := course_handlers.NewCourseHandler(db, contentService, checker, spacesClient)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(db, enrollmentService)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)
	healthHandler := handlers.NewHealthHandler(store)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", healthHandler.Ping)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)

	// Courses routes
	courses := api.Group("/courses")
	courses.Get("/", authMiddleware.Optional(), courseHandler.ListCourses)                                          // Public: course catalog
	courses.Get("/my", authMiddleware.Required(), courseHandler.MyCourses)                                          // Protected: courses authored by the user
	courses.Get("/:id", authMiddleware.Optional(), courseHandler.GetCourse)                                         // Public: course detail, video URLs gated
	courses.Get("/:id/player", authMiddleware.Required(), courseHandler.Player)                                     // Protected: full content tree for viewers with access
	courses.Post("/", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleCreator), courseHandler.CreateCourse) // Creators only
	courses.Put("/:id", authMiddleware.Required(), courseHandler.UpdateCourse)                                      // Owner only
	courses.Delete("/:id", authMiddleware.Required(), courseHandler.DeleteCourse)                                   // Owner only
	courses.Post("/:id/thumbnail", authMiddleware.Required(), courseHandler.UploadThumbnail)                        // Owner only

	// Sections routes
	sections := api.Group("/sections", authMiddleware.Required())
	sections.Post("/", courseHandler.CreateSection)       // Owner only: insert-shift at requested order
	sections.Put("/:id", courseHandler.UpdateSection)     // Owner only
	sections.Delete("/:id", courseHandler.DeleteSection)  // Owner only

	// Chapters routes
	chapters := api.Group("/chapters", authMiddleware.Required())
	chapters.Post("/", courseHandler.CreateChapter)       // Owner only: appends when order is omitted
	chapters.Put("/:id", courseHandler.UpdateChapter)     // Owner only
	chapters.Delete("/:id", courseHandler.DeleteChapter)  // Owner only

	// Enrollment routes
	enrollments := api.Group("/enrollments", authMiddleware.Required())
	enrollments.Post("/", enrollmentHandler.Enroll)       // Protected: one-shot enrollment
	enrollments.Get("/my", enrollmentHandler.MyEnrollments)

	// Notification routes
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Post("/action/:id", notificationHandler.DispatchAction)
}
