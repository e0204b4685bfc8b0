package handlers

import (
	"fmt"

	"skillbook/internal/adapters/http/middleware"
	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/services"
	"skillbook/internal/pkg/pagination"
	"skillbook/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler handles the course catalog and enrollment
type CourseHandler struct {
	courseService     *services.CourseService
	enrollmentService *services.EnrollmentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *services.CourseService, enrollmentService *services.EnrollmentService) *CourseHandler {
	return &CourseHandler{
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// List returns every course, or one page when page or limit is given
func (h *CourseHandler) List(c *fiber.Ctx) error {
	page, paged := pagination.FromQuery(c)
	if !paged {
		courses, _, err := h.courseService.List(c.Context(), 0, 0)
		if err != nil {
			return respondError(c, err, "list courses")
		}
		return response.Success(c, "Courses retrieved successfully", toCourseResponses(courses))
	}

	courses, total, err := h.courseService.List(c.Context(), page.Offset(), page.Size)
	if err != nil {
		return respondError(c, err, "list courses")
	}

	return response.Success(c, "Courses retrieved successfully",
		pagination.NewResult(toCourseResponses(courses), page, total))
}

// ListByCategory returns the courses of one category
func (h *CourseHandler) ListByCategory(c *fiber.Ctx) error {
	courses, err := h.courseService.ListByCategory(c.Context(), c.Params("category"))
	if err != nil {
		return respondError(c, err, "list courses")
	}

	return response.Success(c, "Courses retrieved successfully", toCourseResponses(courses))
}

// Get returns one course
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.courseService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err, "get course")
	}

	return response.Success(c, "Course retrieved successfully", course.ToResponse())
}

// Create adds a course to the catalog
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "All fields are required and must be valid")
	}

	course, err := h.courseService.Create(c.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		return respondError(c, err, "create course")
	}

	return response.Success(c, "Course created successfully.", course.ToResponse())
}

// Update replaces the mutable fields of a course
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "All fields are required and must be valid")
	}

	course, err := h.courseService.Update(c.Context(), middleware.GetPrincipal(c), id, &req)
	if err != nil {
		return respondError(c, err, "update course")
	}

	return response.Success(c, "Course updated successfully", course.ToResponse())
}

// Students lists the users enrolled in a course
func (h *CourseHandler) Students(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	users, err := h.courseService.Roster(c.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		return respondError(c, err, "list students")
	}

	students := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		students = append(students, u.ToSummary())
	}

	return response.Success(c, "Students retrieved successfully", students)
}

// Enroll adds the calling learner to a course
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	result, err := h.enrollmentService.Enroll(c.Context(), middleware.GetPrincipal(c).Username, id)
	if err != nil {
		return respondError(c, err, "enroll")
	}

	return response.Success(c, fmt.Sprintf("Enrolled successfully in course ID %d", id), fiber.Map{
		"courseId":        result.Course.ID,
		"alreadyEnrolled": result.AlreadyEnrolled,
	})
}

func toCourseResponses(courses []*models.Course) []*models.CourseResponse {
	out := make([]*models.CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, course.ToResponse())
	}
	return out
}
