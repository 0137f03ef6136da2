package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eschool/eschool-api/internal/api/middleware"
	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

type stubCourseService struct {
	listFn           func(ctx context.Context) ([]ports.CourseDetail, error)
	getFn            func(ctx context.Context, id string) (*ports.CourseDetail, error)
	createFn         func(ctx context.Context, in ports.CreateCourseInput) (*ports.CourseDetail, error)
	enrollFn         func(ctx context.Context, in ports.EnrollInput) error
	enrolledFn       func(ctx context.Context, userID string) ([]ports.CourseDetail, error)
	enrolledCourseFn func(ctx context.Context, userID, courseID string) (*ports.CourseDetail, error)
}

func (s *stubCourseService) ListCourses(ctx context.Context) ([]ports.CourseDetail, error) {
	return s.listFn(ctx)
}

func (s *stubCourseService) GetCourse(ctx context.Context, id string) (*ports.CourseDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubCourseService) CreateCourse(ctx context.Context, in ports.CreateCourseInput) (*ports.CourseDetail, error) {
	return s.createFn(ctx, in)
}

func (s *stubCourseService) Enroll(ctx context.Context, in ports.EnrollInput) error {
	return s.enrollFn(ctx, in)
}

func (s *stubCourseService) EnrolledCourses(ctx context.Context, userID string) ([]ports.CourseDetail, error) {
	return s.enrolledFn(ctx, userID)
}

func (s *stubCourseService) EnrolledCourse(ctx context.Context, userID, courseID string) (*ports.CourseDetail, error) {
	return s.enrolledCourseFn(ctx, userID, courseID)
}

type stubBookService struct {
	listFn   func(ctx context.Context) ([]*domain.Book, error)
	createFn func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error)
}

func (s *stubBookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.listFn(ctx)
}

func (s *stubBookService) CreateBook(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	return s.createFn(ctx, in)
}

// newContext builds an echo context with the validator wired. A non-empty
// role simulates a request that passed the Auth middleware.
func newContext(method, target, body, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.RoleKey, role)
	}
	return c, rec
}

func sampleCourse(id string) ports.CourseDetail {
	return ports.CourseDetail{
		Course: domain.Course{
			ID:           id,
			Title:        "Go basics",
			Price:        10,
			InstructorID: "inst-1",
			Lessons:      []domain.Lesson{{Title: "Intro", Content: "hello", Order: 1}},
		},
		Instructor: &ports.InstructorSummary{ID: "inst-1", Name: "Grace", Email: "grace@example.com"},
	}
}
