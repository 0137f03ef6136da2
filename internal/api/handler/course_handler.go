package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eschool/eschool-api/internal/api/metrics"
	"github.com/eschool/eschool-api/internal/core/ports"
)

// CourseHandler handles HTTP requests for the course catalogue and enrollment.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

type createCourseRequest struct {
	Title       string          `json:"title"       validate:"required"`
	Description string          `json:"description"`
	Price       float64         `json:"price"       validate:"gte=0"`
	ImageURL    string          `json:"imageUrl"    validate:"omitempty,url"`
	Lessons     []lessonPayload `json:"lessons"     validate:"dive"`
}

type createCourseResponse struct {
	Message string         `json:"message"`
	Course  courseResponse `json:"course"`
}

type enrolledCoursesResponse struct {
	Message         string           `json:"message"`
	EnrolledCourses []courseResponse `json:"enrolledCourses"`
}

type enrolledCourseResponse struct {
	Message string         `json:"message"`
	Course  courseResponse `json:"course"`
}

// List handles GET /api/courses.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Success      200  {array}   courseResponse
// @Failure      500  {object}  errorBody
// @Router       /api/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	details, err := h.service.ListCourses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseResponses(details))
}

// Get handles GET /api/courses/:id.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  courseResponse
// @Failure      404  {object}  errorBody
// @Router       /api/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	detail, err := h.service.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseResponse(*detail))
}

// Create handles POST /api/courses/create.
//
// @Summary      Create a course
// @Description  The authenticated instructor or admin becomes the course instructor.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCourseRequest  true  "Course fields"
// @Success      201   {object}  createCourseResponse
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /api/courses/create [post]
func (h *CourseHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	lessons := make([]ports.LessonInput, len(req.Lessons))
	for i, l := range req.Lessons {
		lessons[i] = ports.LessonInput{Title: l.Title, Content: l.Content, Order: l.Order}
	}

	detail, err := h.service.CreateCourse(c.Request().Context(), ports.CreateCourseInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Lessons:      lessons,
		InstructorID: userID,
	})
	if err != nil {
		return err
	}

	metrics.CatalogueCreatedTotal.WithLabelValues("course").Inc()
	return c.JSON(http.StatusCreated, createCourseResponse{
		Message: "Course created successfully",
		Course:  toCourseResponse(*detail),
	})
}

// Enroll handles POST /api/courses/enroll/:id.
//
// @Summary      Enroll in a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorBody  "Already enrolled in this course"
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody  "Only students can enroll in courses"
// @Failure      404  {object}  errorBody
// @Router       /api/courses/enroll/{id} [post]
func (h *CourseHandler) Enroll(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Enroll(c.Request().Context(), ports.EnrollInput{
		UserID:   userID,
		Role:     role,
		CourseID: c.Param("id"),
	}); err != nil {
		return err
	}

	metrics.EnrollmentsTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Enrolled successfully"})
}

// Enrolled handles GET /api/courses/user/enrolled.
//
// @Summary      List my enrolled courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  enrolledCoursesResponse
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/courses/user/enrolled [get]
func (h *CourseHandler) Enrolled(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	details, err := h.service.EnrolledCourses(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrolledCoursesResponse{
		Message:         "Enrolled courses fetched successfully",
		EnrolledCourses: toCourseResponses(details),
	})
}

// EnrolledDetail handles GET /api/courses/user/enrolled/:id.
//
// @Summary      Get one of my enrolled courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  enrolledCourseResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody  "You are not enrolled in this course"
// @Failure      404  {object}  errorBody
// @Router       /api/courses/user/enrolled/{id} [get]
func (h *CourseHandler) EnrolledDetail(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.EnrolledCourse(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrolledCourseResponse{
		Message: "Enrolled course details fetched successfully",
		Course:  toCourseResponse(*detail),
	})
}
