package routes

import (
	"time"

	"skillbook/internal/adapters/http/handlers"
	"skillbook/internal/adapters/http/middleware"
	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/config"
	"skillbook/internal/core/authz"
	"skillbook/internal/core/services"
	"skillbook/internal/pkg/jwt"
	"skillbook/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the adapters the HTTP layer is built on
type Dependencies struct {
	Users       repositories.UserRepository
	Courses     repositories.CourseRepository
	Enrollments repositories.EnrollmentRepository

	Hasher   password.Hasher
	Tokens   *jwt.Service
	Policy   *authz.Policy
	Sessions services.SessionStore // nil disables server sessions
	Photos   services.PhotoStore
	Notifier *services.NotificationService

	HealthChecks []handlers.HealthCheck
	AuthLimiter  fiber.Handler // nil disables the login/register limiter
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, deps Dependencies) error {
	// Initialize services
	authService, err := services.NewAuthService(deps.Users, deps.Hasher, deps.Tokens, deps.Sessions,
		time.Duration(cfg.Redis.SessionTTL)*time.Minute)
	if err != nil {
		return err
	}
	userService := services.NewUserService(deps.Users, deps.Hasher, deps.Policy, deps.Photos,
		deps.Notifier, cfg.Security.AllowAdminSignup)
	courseService := services.NewCourseService(deps.Courses, deps.Users, deps.Enrollments, deps.Notifier)
	enrollmentService := services.NewEnrollmentService(deps.Users, deps.Courses, deps.Enrollments, deps.Notifier)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, deps.HealthChecks...)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	courseHandler := handlers.NewCourseHandler(courseService, enrollmentService)

	authLimiter := deps.AuthLimiter
	if authLimiter == nil {
		authLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	authenticate := middleware.AuthMiddleware(authService)
	require := func(action authz.Action) fiber.Handler {
		return middleware.Require(deps.Policy, action)
	}

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Registration (public)
	app.Post("/register", authLimiter, middleware.NoStore(), authHandler.Register)

	// Auth routes (public)
	authRoutes := app.Group("/api/auth", middleware.NoStore())
	authRoutes.Post("/login", authLimiter, authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)

	// Course routes
	courseRoutes := app.Group("/courses", authenticate)
	setupCourseRoutes(courseRoutes, courseHandler, require)

	// Profile routes (authenticated users)
	userRoutes := app.Group("/users/me", authenticate, middleware.NoStore())
	setupProfileRoutes(userRoutes, userHandler, require)

	return nil
}

// setupCourseRoutes configures the course catalog and enrollment routes
func setupCourseRoutes(router fiber.Router, handler *handlers.CourseHandler, require func(authz.Action) fiber.Handler) {
	cached := middleware.CacheControl(30 * time.Second)

	router.Get("/", require(authz.ActionListCourses), cached, handler.List)
	router.Get("/category/:category", require(authz.ActionListCourses), cached, handler.ListByCategory)
	router.Post("/courses", require(authz.ActionCreateCourse), handler.Create)

	router.Get("/:id", require(authz.ActionReadCourse), cached, handler.Get)
	router.Put("/:id", require(authz.ActionUpdateCourse), handler.Update)
	router.Get("/:id/students", require(authz.ActionCourseRoster), handler.Students)
	router.Post("/:id/enroll", require(authz.ActionEnroll), handler.Enroll)
}

// setupProfileRoutes configures the caller's own profile routes
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler, require func(authz.Action) fiber.Handler) {
	router.Get("/", require(authz.ActionReadProfile), handler.GetMe)
	router.Put("/", require(authz.ActionUpdateProfile), handler.UpdateMe)
	router.Get("/photo", require(authz.ActionReadProfile), handler.GetPhoto)
	router.Put("/photo", require(authz.ActionUpdateProfile), handler.UploadPhoto)
}
