package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eschool/eschool-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User // keyed by ID
	nextID    int
	findErr   error // if set, FindByEmail returns this error
	createErr error // if set, Create returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.EnrolledCourses = append([]string(nil), u.EnrolledCourses...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// AddEnrollment mirrors the conditional $addToSet used by the Mongo store.
func (r *stubUserRepo) AddEnrollment(_ context.Context, userID, courseID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.IsEnrolled(courseID) {
		return domain.ErrAlreadyEnrolled
	}
	u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory course and book repositories
// ---------------------------------------------------------------------------

type stubCourseRepo struct {
	courses   map[string]*domain.Course
	order     []string
	createErr error
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{courses: make(map[string]*domain.Course)}
}

func (r *stubCourseRepo) add(c *domain.Course) {
	clone := *c
	r.courses[c.ID] = &clone
	r.order = append(r.order, c.ID)
}

func (r *stubCourseRepo) List(_ context.Context) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.courses[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

// FindByIDs returns matches in storage order, not request order.
func (r *stubCourseRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Course, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*domain.Course
	for _, id := range r.order {
		if want[id] {
			clone := *r.courses[id]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubCourseRepo) Create(_ context.Context, c *domain.Course) (*domain.Course, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *c
	clone.ID = fmt.Sprintf("course-%d", len(r.order)+1)
	r.add(&clone)
	return &clone, nil
}

type stubBookRepo struct {
	books     []*domain.Book
	createErr error
}

func (r *stubBookRepo) List(_ context.Context) ([]*domain.Book, error) {
	return r.books, nil
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) (*domain.Book, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *b
	clone.ID = fmt.Sprintf("book-%d", len(r.books)+1)
	r.books = append(r.books, &clone)
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Throttle, audit and hasher stubs
// ---------------------------------------------------------------------------

type stubThrottle struct {
	limit    int
	failures map[string]int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{limit: limit, failures: make(map[string]int)}
}

func (t *stubThrottle) Allowed(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[email] < t.limit, nil
}

func (t *stubThrottle) Fail(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *recordingAudit) Record(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = string(e.Type)
	}
	return out
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }
func (failingHasher) Verify(string, string) bool  { return false }

func joined(s []string) string { return strings.Join(s, ",") }
