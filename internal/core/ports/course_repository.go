package ports

import (
	"context"

	"github.com/eschool/eschool-api/internal/core/domain"
)

// CourseRepository persists courses.
type CourseRepository interface {
	List(ctx context.Context) ([]*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error)
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
}

// BookRepository persists books.
type BookRepository interface {
	List(ctx context.Context) ([]*domain.Book, error)
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
}
