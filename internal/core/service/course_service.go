package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
)

type CourseService struct {
	courses ports.CourseRepository
	users   ports.UserRepository
	audit   ports.AuditRecorder
	logger  zerolog.Logger
}

func NewCourseService(courses ports.CourseRepository, users ports.UserRepository, audit ports.AuditRecorder, logger zerolog.Logger) *CourseService {
	if audit == nil {
		audit = noopAudit{}
	}
	return &CourseService{courses: courses, users: users, audit: audit, logger: logger}
}

// ListCourses returns every course with its instructor populated.
func (s *CourseService) ListCourses(ctx context.Context) ([]ports.CourseDetail, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return s.populate(ctx, courses)
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (*ports.CourseDetail, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.populate(ctx, []*domain.Course{course})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// CreateCourse stores a new course owned by the calling instructor or admin.
func (s *CourseService) CreateCourse(ctx context.Context, in ports.CreateCourseInput) (*ports.CourseDetail, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}

	lessons := make([]domain.Lesson, len(in.Lessons))
	for i, l := range in.Lessons {
		lessons[i] = domain.Lesson{Title: l.Title, Content: l.Content, Order: l.Order}
	}

	created, err := s.courses.Create(ctx, &domain.Course{
		Title:        title,
		Description:  in.Description,
		Price:        in.Price,
		InstructorID: in.InstructorID,
		Lessons:      lessons,
		ImageURL:     in.ImageURL,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create course")
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info().Str("course_id", created.ID).Str("instructor_id", in.InstructorID).Msg("course created")

	details, err := s.populate(ctx, []*domain.Course{created})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Enroll appends the course to a student's enrolled set. Enrolling twice
// yields domain.ErrAlreadyEnrolled.
func (s *CourseService) Enroll(ctx context.Context, in ports.EnrollInput) error {
	if in.Role != domain.RoleStudent {
		return domain.ErrStudentsOnly
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	// The token role was right at issuance; the stored role is authoritative.
	if user.Role != domain.RoleStudent {
		return domain.ErrStudentsOnly
	}

	if _, err := s.courses.FindByID(ctx, in.CourseID); err != nil {
		return err
	}
	if user.IsEnrolled(in.CourseID) {
		return domain.ErrAlreadyEnrolled
	}

	if err := s.users.AddEnrollment(ctx, user.ID, in.CourseID); err != nil {
		if errors.Is(err, domain.ErrAlreadyEnrolled) || errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("enroll: %w", err)
	}

	s.audit.Record(domain.AuthEvent{
		Type:     domain.EventEnrolled,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		CourseID: in.CourseID,
		At:       time.Now().UTC(),
	})
	s.logger.Info().Str("user_id", user.ID).Str("course_id", in.CourseID).Msg("student enrolled")
	return nil
}

// EnrolledCourses returns the user's enrolled courses in enrollment order.
// References to courses that no longer exist are skipped.
func (s *CourseService) EnrolledCourses(ctx context.Context, userID string) ([]ports.CourseDetail, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.EnrolledCourses) == 0 {
		return []ports.CourseDetail{}, nil
	}

	found, err := s.courses.FindByIDs(ctx, user.EnrolledCourses)
	if err != nil {
		return nil, fmt.Errorf("enrolled courses: %w", err)
	}
	byID := make(map[string]*domain.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	ordered := make([]*domain.Course, 0, len(found))
	for _, id := range user.EnrolledCourses {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return s.populate(ctx, ordered)
}

// EnrolledCourse returns a single course the user is enrolled in.
func (s *CourseService) EnrolledCourse(ctx context.Context, userID, courseID string) (*ports.CourseDetail, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolled(courseID) {
		return nil, domain.ErrNotEnrolled
	}
	return s.GetCourse(ctx, courseID)
}

// populate attaches instructor summaries with a single user lookup.
func (s *CourseService) populate(ctx context.Context, courses []*domain.Course) ([]ports.CourseDetail, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		if c.InstructorID == "" {
			continue
		}
		if _, ok := seen[c.InstructorID]; ok {
			continue
		}
		seen[c.InstructorID] = struct{}{}
		ids = append(ids, c.InstructorID)
	}

	instructors := make(map[string]*ports.InstructorSummary, len(ids))
	if len(ids) > 0 {
		users, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("populate instructors: %w", err)
		}
		for _, u := range users {
			instructors[u.ID] = &ports.InstructorSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}

	out := make([]ports.CourseDetail, len(courses))
	for i, c := range courses {
		out[i] = ports.CourseDetail{Course: *c, Instructor: instructors[c.InstructorID]}
	}
	return out, nil
}

type BookService struct {
	books  ports.BookRepository
	logger zerolog.Logger
}

func NewBookService(books ports.BookRepository, logger zerolog.Logger) *BookService {
	return &BookService{books: books, logger: logger}
}

func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) CreateBook(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}

	created, err := s.books.Create(ctx, &domain.Book{
		Title:       title,
		Author:      in.Author,
		Description: in.Description,
		Price:       in.Price,
		FileURL:     in.FileURL,
		CoverImage:  in.CoverImage,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create book")
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info().Str("book_id", created.ID).Msg("book created")
	return created, nil
}
