package ports

import (
	"context"

	"github.com/eschool/eschool-api/internal/core/domain"
)

// LessonInput is a single lesson of a new course.
type LessonInput struct {
	Title   string
	Content string
	Order   int
}

// CreateCourseInput carries the fields of a new course. InstructorID is the
// authenticated caller.
type CreateCourseInput struct {
	Title        string
	Description  string
	Price        float64
	ImageURL     string
	Lessons      []LessonInput
	InstructorID string
}

// InstructorSummary is the populated instructor reference on a course.
type InstructorSummary struct {
	ID    string
	Name  string
	Email string
}

// CourseDetail is a course with its instructor populated. Instructor is nil
// when the course has no instructor or the instructor no longer exists.
type CourseDetail struct {
	Course     domain.Course
	Instructor *InstructorSummary
}

// EnrollInput identifies the caller and the course to enroll in. Role is the
// role taken from the verified token.
type EnrollInput struct {
	UserID   string
	Role     string
	CourseID string
}

// CourseService defines use-case operations for the course catalogue and
// enrollment.
type CourseService interface {
	ListCourses(ctx context.Context) ([]CourseDetail, error)
	GetCourse(ctx context.Context, id string) (*CourseDetail, error)
	CreateCourse(ctx context.Context, in CreateCourseInput) (*CourseDetail, error)
	Enroll(ctx context.Context, in EnrollInput) error
	EnrolledCourses(ctx context.Context, userID string) ([]CourseDetail, error)
	EnrolledCourse(ctx context.Context, userID, courseID string) (*CourseDetail, error)
}

// CreateBookInput carries the fields of a new book.
type CreateBookInput struct {
	Title       string
	Author      string
	Description string
	Price       float64
	FileURL     string
	CoverImage  string
}

// BookService defines use-case operations for the book catalogue.
type BookService interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	CreateBook(ctx context.Context, in CreateBookInput) (*domain.Book, error)
}
